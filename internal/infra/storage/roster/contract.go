package roster

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

// BlobStore подмножество blobstore.Store для чтения whitelist
type BlobStore interface {
	Get(ctx context.Context, key string) (*blobstore.Object, error)
}
