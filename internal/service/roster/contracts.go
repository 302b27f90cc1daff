package roster

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Source источник ростера (whitelist в blob store или внешний сервис)
type Source interface {
	GetEntries(ctx context.Context) ([]domain.RosterEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
