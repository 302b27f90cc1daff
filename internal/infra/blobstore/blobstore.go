// Package blobstore описывает key/value хранилище blob-объектов, на котором лежат данные доступности.
// Каждый бэкенд отдает непрозрачный ETag объекта и условную запись,
// которая проходит, только пока ETag не изменился.
package blobstore

import (
	"context"
	"time"
)

// Object blob с текущим тегом версии
type Object struct {
	Key       string
	Data      []byte
	ETag      string
	UpdatedAt time.Time
}

// Store контракт blob-хранилища
type Store interface {
	// Get возвращает объект или ErrNotFound
	Get(ctx context.Context, key string) (*Object, error)

	// Put перезаписывает объект безусловно и возвращает новый ETag
	Put(ctx context.Context, key string, data []byte) (string, error)

	// PutIfMatch пишет объект, только если его текущий ETag равен etag.
	// Пустой etag означает "создать, только если объекта ещё нет".
	// При несовпадении возвращает ErrPreconditionFailed.
	PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error)

	// List возвращает ключи с указанным префиксом, отсортированные по возрастанию
	List(ctx context.Context, prefix string) ([]string, error)
}
