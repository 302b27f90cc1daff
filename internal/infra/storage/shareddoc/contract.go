package shareddoc

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// BlobStore подмножество blobstore.Store с условной записью
type BlobStore interface {
	Get(ctx context.Context, key string) (*blobstore.Object, error)
	PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error)
}
