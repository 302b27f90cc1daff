package toggle_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/retry"
)

// Strategy способ хранения доступности
type Strategy string

const (
	// StrategySharded один файл на участника, запись без блокировок
	StrategySharded Strategy = "sharded"

	// StrategyShared один общий документ с optimistic concurrency по ETag
	StrategyShared Strategy = "shared"
)

// ParseStrategy разбирает имя стратегии из конфигурации
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(raw); s {
	case StrategySharded, StrategyShared:
		return s, nil
	case "":
		return StrategySharded, nil
	default:
		return "", fmt.Errorf("unknown availability strategy %q", raw)
	}
}

// Legacy-значения поля state
const (
	StateAvailable = "available"
	StateClear     = "clear"
)

// Config параметры use case
type Config struct {
	Strategy Strategy
	Retry    retry.Policy
}

// Request модель запроса на изменение доступности
type Request struct {
	Identity  string // имя из проверенной сессии, не из тела запроса
	SlotKey   string // ключ слота "YYYY-MM-DD|H"
	Available *bool  // желаемое состояние
	State     string // legacy: "available" | "clear", используется если Available не задан
}

// Response модель ответа
type Response struct {
	SlotKey   string    // канонический ключ слота
	Attendees []string  // участники слота после записи
	UpdatedAt time.Time // время записи
	Attempts  int       // число попыток записи
}
