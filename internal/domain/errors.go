package domain

import "errors"

var (
	// ErrInvalidSlotKey возвращается при некорректном ключе слота
	ErrInvalidSlotKey = errors.New("domain: invalid slot key")

	// ErrEmptyDisplayName возвращается, когда имя участника пустое
	ErrEmptyDisplayName = errors.New("domain: empty display name")
)
