package shareddoc

import "errors"

var (
	// ErrVersionConflict возвращается, когда документ изменили после чтения
	ErrVersionConflict = errors.New("shareddoc.repository: version conflict")

	// ErrStorageUnavailable возвращается при ошибках чтения/записи в blob store
	ErrStorageUnavailable = errors.New("shareddoc.repository: storage unavailable")

	// ErrEncode возвращается, если документ не удалось сериализовать
	ErrEncode = errors.New("shareddoc.repository: failed to encode document")
)
