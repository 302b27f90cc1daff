package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("GET /availability - Failed to aggregate availability: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if result.Degraded {
		h.logger.Warn("GET /availability - Serving degraded aggregate")
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
