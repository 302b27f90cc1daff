package roster

import "errors"

var (
	// ErrMemberNotFound возвращается, когда участника нет в ростере
	ErrMemberNotFound = errors.New("roster: member not found")

	// ErrInvalidInput возвращается при пустом имени
	ErrInvalidInput = errors.New("roster: invalid input data")

	// ErrRosterUnavailable возвращается, когда источник ростера недоступен
	ErrRosterUnavailable = errors.New("roster: source unavailable")

	// ErrMemberKeyCollision возвращается, когда ключ хранения участника совпадает с ключом другого участника
	ErrMemberKeyCollision = errors.New("roster: member storage key collides with another member")
)
