package shareddoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// DocumentKey ключ общего документа доступности
const DocumentKey = "availability/shared.json"

// Repository общий документ доступности, защищенный ETag
type Repository struct {
	store BlobStore
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// Load читает документ и его ETag. Отсутствующий документ - пустой документ с пустым ETag.
func (r *Repository) Load(ctx context.Context) (*domain.SharedDocument, string, error) {
	obj, err := r.store.Get(ctx, DocumentKey)
	if errors.Is(err, blobstore.ErrNotFound) {
		return domain.NewSharedDocument(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: Load - get: %v", ErrStorageUnavailable, err)
	}

	return decodeDocument(obj.Data), obj.ETag, nil
}

// SaveIfMatch пишет документ, только если его ETag не изменился. Пустой etag - создание.
func (r *Repository) SaveIfMatch(ctx context.Context, doc *domain.SharedDocument, etag string) (string, error) {
	doc.Normalize()

	file := documentFile{
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt.UTC().Format(domain.TimestampFormat),
		Slots:     make(map[string]slotEntry, len(doc.Slots)),
	}
	for key, names := range doc.Slots {
		file.Slots[key] = slotEntry{Attendees: names}
	}

	data, err := json.Marshal(file)
	if err != nil {
		return "", fmt.Errorf("%w: SaveIfMatch - marshal: %v", ErrEncode, err)
	}

	newTag, err := r.store.PutIfMatch(ctx, DocumentKey, data, etag)
	if errors.Is(err, blobstore.ErrPreconditionFailed) {
		return "", ErrVersionConflict
	}
	if err != nil {
		return "", fmt.Errorf("%w: SaveIfMatch - put: %v", ErrStorageUnavailable, err)
	}

	return newTag, nil
}

func decodeDocument(data []byte) *domain.SharedDocument {
	doc := domain.NewSharedDocument()

	var raw rawDocumentFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return doc
	}

	var updatedAt string
	if err := json.Unmarshal(raw.UpdatedAt, &updatedAt); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			doc.UpdatedAt = ts.UTC()
		}
	}

	for key, rawSlot := range raw.Slots {
		var slot rawSlotEntry
		if err := json.Unmarshal(rawSlot, &slot); err != nil {
			continue
		}
		names := make([]string, 0, len(slot.Attendees))
		for _, item := range slot.Attendees {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				names = append(names, s)
			}
		}
		doc.Slots[key] = names
	}

	doc.Normalize()
	return doc
}
