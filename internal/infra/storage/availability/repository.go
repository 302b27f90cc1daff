package availability

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

const (
	// UserKeyPrefix префикс ключей файлов участников
	UserKeyPrefix = "availability/users/"

	userKeySuffix = ".json"
)

// UserBlobKey ключ файла участника в blob store
func UserBlobKey(displayName string) string {
	return UserKeyPrefix + domain.MemberKey(displayName) + userKeySuffix
}

// Repository хранилище записей доступности: один blob на участника
type Repository struct {
	store        BlobStore
	timeProvider TimeProvider
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(store BlobStore) *Repository {
	return &Repository{
		store:        store,
		timeProvider: &RealTimeProvider{},
	}
}

// NewRepositoryWithTimeProvider создает репозиторий с кастомным провайдером времени (для тестирования)
func NewRepositoryWithTimeProvider(store BlobStore, timeProvider TimeProvider) *Repository {
	return &Repository{
		store:        store,
		timeProvider: timeProvider,
	}
}

// Load читает запись участника.
// Отсутствующий или испорченный файл дает пустую запись; ошибка возвращается только при недоступности хранилища.
func (r *Repository) Load(ctx context.Context, displayName string) (*domain.AvailabilityRecord, error) {
	obj, err := r.store.Get(ctx, UserBlobKey(displayName))
	if errors.Is(err, blobstore.ErrNotFound) {
		return domain.NewAvailabilityRecord(displayName), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Load - get %q: %v", ErrStorageUnavailable, displayName, err)
	}

	return decodeRecord(obj.Data, displayName), nil
}

// Save нормализует запись, проставляет updatedAt и перезаписывает файл участника
func (r *Repository) Save(ctx context.Context, record *domain.AvailabilityRecord) error {
	if domain.NormalizeName(record.DisplayName) == "" {
		return ErrEmptyDisplayName
	}

	record.Normalize()
	record.UpdatedAt = r.timeProvider.Now().UTC()

	data, err := json.Marshal(userFile{
		Version:   record.Version,
		User:      record.DisplayName,
		UpdatedAt: record.UpdatedAt.Format(domain.TimestampFormat),
		Available: record.AvailableSlots,
	})
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %v", ErrEncode, err)
	}

	if _, err := r.store.Put(ctx, UserBlobKey(record.DisplayName), data); err != nil {
		return fmt.Errorf("%w: Save - put %q: %v", ErrStorageUnavailable, record.DisplayName, err)
	}

	return nil
}

// ListMemberKeys возвращает member key всех участников, у которых есть файл
func (r *Repository) ListMemberKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, UserKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMemberKeys - list: %v", ErrStorageUnavailable, err)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, userKeySuffix) {
			continue
		}
		member := strings.TrimSuffix(strings.TrimPrefix(k, UserKeyPrefix), userKeySuffix)
		if member == "" || strings.Contains(member, "/") {
			continue
		}
		out = append(out, member)
	}

	return out, nil
}

// decodeRecord разбирает файл участника, не доверяя его форме
func decodeRecord(data []byte, fallbackName string) *domain.AvailabilityRecord {
	record := domain.NewAvailabilityRecord(fallbackName)

	var raw rawUserFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return record
	}

	var user string
	if err := json.Unmarshal(raw.User, &user); err == nil && strings.TrimSpace(user) != "" {
		record.DisplayName = strings.TrimSpace(user)
	}

	var updatedAt string
	if err := json.Unmarshal(raw.UpdatedAt, &updatedAt); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			record.UpdatedAt = ts.UTC()
		}
	}

	var items []interface{}
	if err := json.Unmarshal(raw.Available, &items); err == nil {
		slots := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				slots = append(slots, s)
			}
		}
		record.AvailableSlots = slots
	}

	record.Normalize()
	return record
}
