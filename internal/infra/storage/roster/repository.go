package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// DefaultWhitelistKey ключ whitelist в пространстве имен auth
const DefaultWhitelistKey = "whitelist.json"

// Repository источник ростера поверх blob store
type Repository struct {
	store BlobStore
	key   string
}

// NewRepository создает репозиторий; пустой key заменяется на DefaultWhitelistKey
func NewRepository(store BlobStore, key string) *Repository {
	if key == "" {
		key = DefaultWhitelistKey
	}
	return &Repository{store: store, key: key}
}

// GetEntries возвращает участников ростера.
// Отсутствующий или испорченный whitelist - пустой ростер.
func (r *Repository) GetEntries(ctx context.Context) ([]domain.RosterEntry, error) {
	obj, err := r.store.Get(ctx, r.key)
	if errors.Is(err, blobstore.ErrNotFound) {
		return []domain.RosterEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntries - get %s: %v", ErrStorageUnavailable, r.key, err)
	}

	return ParseWhitelist(obj.Data), nil
}

// ParseWhitelist разбирает документ {users:[{name, role}]}: имена обрезаются,
// пустые отбрасываются, неизвестная роль становится player
func ParseWhitelist(data []byte) []domain.RosterEntry {
	entries := make([]domain.RosterEntry, 0)

	var doc whitelistDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return entries
	}

	for _, raw := range doc.Users {
		var e whitelistEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		name := strings.TrimSpace(stringify(e.Name))
		if name == "" {
			continue
		}
		entries = append(entries, domain.RosterEntry{
			DisplayName: name,
			Role:        domain.ParseRole(stringify(e.Role)),
		})
	}

	return entries
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
