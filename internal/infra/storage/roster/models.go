package roster

import "encoding/json"

// whitelistDoc формат whitelist.json
type whitelistDoc struct {
	Users []json.RawMessage `json:"users"`
}

type whitelistEntry struct {
	Name interface{} `json:"name"`
	Role interface{} `json:"role"`
}
