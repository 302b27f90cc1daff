package toggle_availability

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateSlotKey проверяет ключ слота строго (без самоисправления)
func validateSlotKey(raw string) (domain.SlotKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.SlotKey{}, fmt.Errorf("%w: slotKey is required", ErrInvalidInput)
	}

	slot, ok := domain.ParseSlotKey(raw)
	if !ok {
		return domain.SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, raw)
	}

	return slot, nil
}

// desiredState возвращает целевое состояние; legacy-поле state учитывается, только если available не задан
func desiredState(req *Request) (bool, error) {
	if req.Available != nil {
		return *req.Available, nil
	}

	switch strings.TrimSpace(req.State) {
	case StateAvailable:
		return true, nil
	case StateClear:
		return false, nil
	default:
		return false, fmt.Errorf("%w: available boolean is required", ErrInvalidInput)
	}
}
