package get_availability

import "github.com/m04kA/SMC-AvailabilityService/internal/domain"

// Response агрегированная доступность команды
type Response struct {
	Aggregate domain.AggregatedView
	Roles     map[string]string // имя в нижнем регистре -> роль
	Degraded  bool              // часть данных не удалось прочитать
}

// Source откуда читается доступность
type Source string

const (
	// SourceRecords по одному файлу на участника (стратегия sharded)
	SourceRecords Source = "records"

	// SourceShared общий документ (стратегия shared)
	SourceShared Source = "shared"
)

// Options параметры агрегации
type Options struct {
	// Source должен совпадать со стратегией записи, иначе запись не видна при чтении
	Source Source


	// Concurrency ограничивает число параллельных чтений записей
	Concurrency int

	// ReportOrphans включает поиск файлов участников, которых нет в ростере (только лог)
	ReportOrphans bool
}

// DefaultConcurrency используется, если Concurrency не задан
const DefaultConcurrency = 8
