package availability

import "errors"

var (
	// ErrStorageUnavailable возвращается при ошибках чтения/записи в blob store
	ErrStorageUnavailable = errors.New("availability.repository: storage unavailable")

	// ErrEncode возвращается, если запись не удалось сериализовать
	ErrEncode = errors.New("availability.repository: failed to encode record")

	// ErrEmptyDisplayName возвращается при попытке сохранить запись без имени
	ErrEmptyDisplayName = errors.New("availability.repository: empty display name")
)
