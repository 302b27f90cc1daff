package availability

import "encoding/json"

// userFile формат JSON-файла участника в хранилище
type userFile struct {
	Version   int      `json:"version"`
	User      string   `json:"user"`
	UpdatedAt string   `json:"updatedAt"`
	Available []string `json:"available"`
}

// rawUserFile используется при чтении: поля могут иметь любой тип
type rawUserFile struct {
	User      json.RawMessage `json:"user"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
	Available json.RawMessage `json:"available"`
}
