package domain

// Slot hour range (inclusive). A slot with hour H covers H:00-H+1:00,
// so the last session of the evening is 22:00-23:00.
const (
	MinHour = 17
	MaxHour = 22
)

// Document schema versions
const (
	RecordVersion         = 1
	AggregateVersion      = 1
	SharedDocumentVersion = 1
)

// Time format constants
const (
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// SlotKeySeparator разделяет дату и час в текстовом ключе слота
const SlotKeySeparator = "|"

// CollationLanguage язык ростера, используется для сортировки имён участников
const CollationLanguage = "fr"
