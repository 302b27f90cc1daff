package shareddoc

import "encoding/json"

// slotEntry участники одного слота; поле "a" сохранено для совместимости
type slotEntry struct {
	Attendees []string `json:"a"`
}

type documentFile struct {
	Version   int                  `json:"version"`
	UpdatedAt string               `json:"updatedAt"`
	Slots     map[string]slotEntry `json:"slots"`
}

type rawDocumentFile struct {
	UpdatedAt json.RawMessage            `json:"updatedAt"`
	Slots     map[string]json.RawMessage `json:"slots"`
}

type rawSlotEntry struct {
	Attendees []interface{} `json:"a"`
}
