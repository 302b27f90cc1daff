// Package postgres хранит blob-объекты в одной таблице PostgreSQL. ETag лежит в отдельной
// колонке, условная запись - это UPDATE с условием или INSERT ... ON CONFLICT.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// DefaultTable таблица для хранения blob-объектов
const DefaultTable = "availability_blobs"

// DBExecutor интерфейс для *sql.DB и *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store blob-хранилище поверх PostgreSQL
type Store struct {
	db    DBExecutor
	table string
}

// NewStore создает хранилище; пустое имя таблицы заменяется на DefaultTable
func NewStore(db DBExecutor, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, table: table}
}

// EnsureSchema создает таблицу, если её ещё нет
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	etag       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: EnsureSchema - create table: %v", blobstore.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	query, args, err := psqlbuilder.Select("data", "etag", "updated_at").
		From(s.table).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", blobstore.ErrUnavailable, err)
	}

	obj := &blobstore.Object{Key: key}
	var updatedAt sql.NullTime

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&obj.Data, &obj.ETag, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan row: %v", blobstore.ErrUnavailable, err)
	}

	obj.UpdatedAt = updatedAt.Time
	return obj, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	etag := uuid.NewString()
	query, args, err := psqlbuilder.Insert(s.table).
		Columns("key", "data", "etag", "updated_at").
		Values(key, data, etag, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, etag = EXCLUDED.etag, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: Put - build upsert query: %v", blobstore.ErrUnavailable, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("%w: Put - execute upsert: %v", blobstore.ErrUnavailable, err)
	}
	return etag, nil
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	newTag := uuid.NewString()
	now := time.Now().UTC()

	var (
		query string
		args  []interface{}
		err   error
	)

	if etag == "" {
		query, args, err = psqlbuilder.Insert(s.table).
			Columns("key", "data", "etag", "updated_at").
			Values(key, data, newTag, now).
			Suffix("ON CONFLICT (key) DO NOTHING").
			ToSql()
	} else {
		query, args, err = psqlbuilder.Update(s.table).
			Set("data", data).
			Set("etag", newTag).
			Set("updated_at", now).
			Where(squirrel.Eq{"key": key}).
			Where(squirrel.Eq{"etag": etag}).
			ToSql()
	}
	if err != nil {
		return "", fmt.Errorf("%w: PutIfMatch - build query: %v", blobstore.ErrUnavailable, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("%w: PutIfMatch - execute: %v", blobstore.ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%w: PutIfMatch - rows affected: %v", blobstore.ErrUnavailable, err)
	}
	if affected == 0 {
		return "", blobstore.ErrPreconditionFailed
	}

	return newTag, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := psqlbuilder.Select("key").
		From(s.table).
		Where(squirrel.Like{"key": escapeLike(prefix) + "%"}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", blobstore.ErrUnavailable, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", blobstore.ErrUnavailable, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", blobstore.ErrUnavailable, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", blobstore.ErrUnavailable, err)
	}

	return keys, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE (в PostgreSQL escape-символ по умолчанию - '\')
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
