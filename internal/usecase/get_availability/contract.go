package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// RosterResolver интерфейс резолвера ростера
type RosterResolver interface {
	ListMembers(ctx context.Context) ([]string, error)
	Roles(ctx context.Context) (map[string]string, error)
}

// RecordRepository интерфейс хранилища записей доступности
type RecordRepository interface {
	Load(ctx context.Context, displayName string) (*domain.AvailabilityRecord, error)
	ListMemberKeys(ctx context.Context) ([]string, error)
}

// SharedDocumentRepository интерфейс общего документа
type SharedDocumentRepository interface {
	Load(ctx context.Context) (*domain.SharedDocument, string, error)
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
