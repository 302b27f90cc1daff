package get_availability

import "errors"

var (
	// ErrRosterUnavailable возвращается, когда без ростера нельзя ответить
	ErrRosterUnavailable = errors.New("get_availability: roster unavailable")

	// ErrStorageUnavailable возвращается, когда часть записей не прочитана и точный ответ невозможен
	ErrStorageUnavailable = errors.New("get_availability: storage unavailable")

	errSharedNotConfigured = errors.New("get_availability: shared document repository is not configured")
)
