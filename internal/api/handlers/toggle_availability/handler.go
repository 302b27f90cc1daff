package toggle_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	toggleAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/toggle_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotAuthenticated   = "требуется аутентификация"
	msgInvalidInput       = "требуются поля slotKey и available"
	msgInvalidSlotKey     = "некорректный слот, ожидается YYYY-MM-DD|H (часы 17-22)"
	msgForbidden          = "пользователь не состоит в ростере"
	msgConflict           = "расписание изменено параллельно, повторите запрос"
	msgStorageUnavailable = "хранилище временно недоступно"
)

type Handler struct {
	useCase ToggleAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ToggleAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	var req ToggleAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability - Invalid request body: user=%q, error=%v", username, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(username))
	if err != nil {
		switch {
		case errors.Is(err, toggleAvailability.ErrForbidden):
			h.logger.Warn("POST /availability - Unknown member: user=%q", username)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, toggleAvailability.ErrInvalidSlotKey):
			h.logger.Warn("POST /availability - Invalid slot key: user=%q, slot=%q", username, req.SlotKey)
			handlers.RespondBadRequest(w, msgInvalidSlotKey)

		case errors.Is(err, toggleAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability - Invalid input: user=%q, error=%v", username, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, toggleAvailability.ErrConflict):
			h.logger.Warn("POST /availability - Conflict: user=%q, slot=%q", username, req.SlotKey)
			handlers.RespondError(w, http.StatusConflict, msgConflict)

		case errors.Is(err, toggleAvailability.ErrStorageUnavailable):
			h.logger.Error("POST /availability - Storage unavailable: user=%q, error=%v", username, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)

		default:
			h.logger.Error("POST /availability - Failed to toggle availability: user=%q, error=%v", username, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability - Updated: user=%q, slot=%s, attendees=%d",
		username, result.SlotKey, len(result.Attendees))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
