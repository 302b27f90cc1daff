// Package instrumented оборачивает blobstore.Store и отправляет метрики каждого вызова в Prometheus.
package instrumented

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

const (
	resultOK           = "ok"
	resultNotFound     = "not_found"
	resultPrecondition = "precondition_failed"
	resultError        = "error"
)

// Recorder принимает результат одной операции
type Recorder interface {
	ObserveBlobOperation(backend, operation, result string, duration time.Duration)
}

// Store декоратор, измеряющий latency и исход операций
type Store struct {
	inner    blobstore.Store
	recorder Recorder
	backend  string
}

// NewStore оборачивает store; backend используется как label
func NewStore(inner blobstore.Store, recorder Recorder, backend string) *Store {
	return &Store{inner: inner, recorder: recorder, backend: backend}
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	start := time.Now()
	obj, err := s.inner.Get(ctx, key)
	s.observe("get", err, start)
	return obj, err
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	start := time.Now()
	etag, err := s.inner.Put(ctx, key, data)
	s.observe("put", err, start)
	return etag, err
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	start := time.Now()
	newTag, err := s.inner.PutIfMatch(ctx, key, data, etag)
	s.observe("put_if_match", err, start)
	return newTag, err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := s.inner.List(ctx, prefix)
	s.observe("list", err, start)
	return keys, err
}

func (s *Store) observe(operation string, err error, start time.Time) {
	s.recorder.ObserveBlobOperation(s.backend, operation, resultOf(err), time.Since(start))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, blobstore.ErrNotFound):
		return resultNotFound
	case errors.Is(err, blobstore.ErrPreconditionFailed):
		return resultPrecondition
	default:
		return resultError
	}
}
