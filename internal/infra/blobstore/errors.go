package blobstore

import "errors"

var (
	// ErrNotFound возвращается, когда объекта с таким ключом нет
	ErrNotFound = errors.New("blobstore: object not found")

	// ErrPreconditionFailed возвращается, когда ETag объекта изменился с момента чтения
	ErrPreconditionFailed = errors.New("blobstore: precondition failed")

	// ErrUnavailable возвращается при ошибках ввода-вывода бэкенда
	ErrUnavailable = errors.New("blobstore: backend unavailable")

	// ErrInvalidKey возвращается при пустом ключе
	ErrInvalidKey = errors.New("blobstore: invalid key")
)
