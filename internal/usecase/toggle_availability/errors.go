package toggle_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("toggle_availability: invalid input data")

	// ErrInvalidSlotKey возвращается при некорректном ключе слота
	ErrInvalidSlotKey = errors.New("toggle_availability: invalid slot key")

	// ErrForbidden возвращается, когда пользователя нет в ростере
	ErrForbidden = errors.New("toggle_availability: member is not on the roster")

	// ErrConflict возвращается, когда все попытки условной записи проиграли гонку.
	// Запрос можно повторить.
	ErrConflict = errors.New("toggle_availability: concurrent update conflict")

	// ErrStorageUnavailable возвращается при недоступности хранилища или ростера
	ErrStorageUnavailable = errors.New("toggle_availability: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("toggle_availability: internal error")
)
