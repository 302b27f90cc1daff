package get_availability

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

// SlotResponse участники одного слота
type SlotResponse struct {
	Attendees []string `json:"attendees"`
}

// AggregateResponse агрегированная доступность
type AggregateResponse struct {
	Version   int                     `json:"version"`
	UpdatedAt string                  `json:"updatedAt"`
	Slots     map[string]SlotResponse `json:"slots"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Aggregate AggregateResponse `json:"aggregate"`
	Roles     map[string]string `json:"roles"`
	Degraded  bool              `json:"degraded"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make(map[string]SlotResponse, len(resp.Aggregate.Slots))
	for key, names := range resp.Aggregate.Slots {
		slots[key] = SlotResponse{Attendees: names}
	}

	roles := resp.Roles
	if roles == nil {
		roles = map[string]string{}
	}

	return &AvailabilityResponse{
		Aggregate: AggregateResponse{
			Version:   resp.Aggregate.Version,
			UpdatedAt: resp.Aggregate.UpdatedAt.UTC().Format(domain.TimestampFormat),
			Slots:     slots,
		},
		Roles:    roles,
		Degraded: resp.Degraded,
	}
}
