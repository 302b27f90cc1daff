package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// BlobStore подмножество blobstore.Store, нужное репозиторию
type BlobStore interface {
	Get(ctx context.Context, key string) (*blobstore.Object, error)
	Put(ctx context.Context, key string, data []byte) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
