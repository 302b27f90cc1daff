package rosterservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("rosterservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("rosterservice client: invalid response")

	// ErrServiceUnavailable возвращается, когда сервис ростера недоступен
	ErrServiceUnavailable = errors.New("rosterservice client: service unavailable")
)
