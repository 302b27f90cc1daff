package toggle_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// RosterResolver интерфейс резолвера ростера
type RosterResolver interface {
	ResolveCanonicalName(ctx context.Context, identity string) (string, error)
}

// RecordRepository интерфейс хранилища записей участников
type RecordRepository interface {
	Load(ctx context.Context, displayName string) (*domain.AvailabilityRecord, error)
	Save(ctx context.Context, record *domain.AvailabilityRecord) error
}

// SlotBuilder пересчитывает участников слота по всему ростеру
type SlotBuilder interface {
	BuildSlot(ctx context.Context, slot domain.SlotKey) ([]string, error)
}

// SharedDocumentRepository интерфейс общего документа с условной записью
type SharedDocumentRepository interface {
	Load(ctx context.Context) (*domain.SharedDocument, string, error)
	SaveIfMatch(ctx context.Context, doc *domain.SharedDocument, etag string) (string, error)
}

// WriteRecorder принимает метрики записи
type WriteRecorder interface {
	IncWriteConflict()
	ObserveWrite(strategy, state string, attempts int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

type noopRecorder struct{}

func (noopRecorder) IncWriteConflict()                {}
func (noopRecorder) ObserveWrite(string, string, int) {}
