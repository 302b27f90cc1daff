// Package memory blob-хранилище в памяти процесса для локального запуска и тестов.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

type entry struct {
	data      []byte
	etag      string
	updatedAt time.Time
}

// Store потокобезопасное хранилище в памяти
type Store struct {
	mu      sync.RWMutex
	objects map[string]entry
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{objects: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.objects[key]
	if !ok {
		return nil, blobstore.ErrNotFound
	}

	return &blobstore.Object{
		Key:       key,
		Data:      append([]byte(nil), e.data...),
		ETag:      e.etag,
		UpdatedAt: e.updatedAt,
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store(key, data), nil
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.objects[key]
	switch {
	case etag == "" && exists:
		return "", blobstore.ErrPreconditionFailed
	case etag != "" && (!exists || current.etag != etag):
		return "", blobstore.ErrPreconditionFailed
	}

	return s.store(key, data), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// store должен вызываться под s.mu
func (s *Store) store(key string, data []byte) string {
	etag := uuid.NewString()
	s.objects[key] = entry{
		data:      append([]byte(nil), data...),
		etag:      etag,
		updatedAt: time.Now().UTC(),
	}
	return etag
}
