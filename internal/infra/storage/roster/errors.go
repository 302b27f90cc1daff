package roster

import "errors"

var (
	// ErrStorageUnavailable возвращается при ошибках чтения whitelist
	ErrStorageUnavailable = errors.New("roster.repository: storage unavailable")
)
