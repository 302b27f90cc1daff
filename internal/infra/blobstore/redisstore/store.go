// Package redisstore хранит каждый blob в Redis hash {data, etag, updated_at}.
// Условная запись идет под WATCH: конкурентная запись отменяет транзакцию.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

const (
	fieldData      = "data"
	fieldETag      = "etag"
	fieldUpdatedAt = "updated_at"

	scanCount = 200
)

// Store blob-хранилище поверх Redis
type Store struct {
	client    *redis.Client
	keyPrefix string
}

// NewStore создает хранилище; keyPrefix добавляется к каждому ключу Redis
func NewStore(client *redis.Client, keyPrefix string) *Store {
	return &Store{client: client, keyPrefix: keyPrefix}
}

func (s *Store) redisKey(key string) string {
	return s.keyPrefix + key
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	values, err := s.client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - hgetall: %v", blobstore.ErrUnavailable, err)
	}
	if len(values) == 0 {
		return nil, blobstore.ErrNotFound
	}

	obj := &blobstore.Object{
		Key:  key,
		Data: []byte(values[fieldData]),
		ETag: values[fieldETag],
	}
	if ts, err := time.Parse(time.RFC3339Nano, values[fieldUpdatedAt]); err == nil {
		obj.UpdatedAt = ts
	}
	return obj, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	etag := uuid.NewString()
	if err := s.client.HSet(ctx, s.redisKey(key), fields(data, etag)...).Err(); err != nil {
		return "", fmt.Errorf("%w: Put - hset: %v", blobstore.ErrUnavailable, err)
	}
	return etag, nil
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	rkey := s.redisKey(key)
	newTag := uuid.NewString()

	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, rkey, fieldETag).Result()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists = false
		} else if err != nil {
			return err
		}

		switch {
		case etag == "" && exists:
			return blobstore.ErrPreconditionFailed
		case etag != "" && (!exists || current != etag):
			return blobstore.ErrPreconditionFailed
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, rkey, fields(data, newTag)...)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, rkey)
	switch {
	case err == nil:
		return newTag, nil
	case errors.Is(err, blobstore.ErrPreconditionFailed), errors.Is(err, redis.TxFailedErr):
		return "", blobstore.ErrPreconditionFailed
	default:
		return "", fmt.Errorf("%w: PutIfMatch - watch: %v", blobstore.ErrUnavailable, err)
	}
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(s.keyPrefix+prefix) + "*"

	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - scan: %v", blobstore.ErrUnavailable, err)
	}

	sort.Strings(keys)
	return keys, nil
}

func fields(data []byte, etag string) []interface{} {
	return []interface{}{
		fieldData, data,
		fieldETag, etag,
		fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
