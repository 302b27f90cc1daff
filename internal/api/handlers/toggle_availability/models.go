package toggle_availability

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	toggleAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/toggle_availability"
)

// ToggleAvailabilityRequest HTTP request model.
// Имя участника в теле не передается: оно берется из сессии.
type ToggleAvailabilityRequest struct {
	SlotKey   string `json:"slotKey"`
	Available *bool  `json:"available,omitempty"`
	State     string `json:"state,omitempty"` // legacy: "available" | "clear"
}

// ToggleAvailabilityResponse HTTP response model
type ToggleAvailabilityResponse struct {
	SlotKey   string   `json:"slotKey"`
	Attendees []string `json:"attendees"`
	UpdatedAt string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ToggleAvailabilityRequest) ToUseCaseRequest(identity string) *toggleAvailability.Request {
	return &toggleAvailability.Request{
		Identity:  identity,
		SlotKey:   r.SlotKey,
		Available: r.Available,
		State:     r.State,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *toggleAvailability.Response) *ToggleAvailabilityResponse {
	attendees := resp.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	return &ToggleAvailabilityResponse{
		SlotKey:   resp.SlotKey,
		Attendees: attendees,
		UpdatedAt: resp.UpdatedAt.UTC().Format(domain.TimestampFormat),
	}
}
