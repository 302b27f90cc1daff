package shareddoc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/memory"
)

type unavailableStore struct{}

func (unavailableStore) Get(context.Context, string) (*blobstore.Object, error) {
	return nil, blobstore.ErrUnavailable
}

func (unavailableStore) PutIfMatch(context.Context, string, []byte, string) (string, error) {
	return "", blobstore.ErrUnavailable
}

func TestRepository_LoadMissing(t *testing.T) {
	doc, etag, err := NewRepository(memory.NewStore()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, etag)
	assert.Empty(t, doc.Slots)
	assert.Equal(t, domain.SharedDocumentVersion, doc.Version)
}

func TestRepository_SaveIfMatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewRepository(store)
	slot, ok := domain.ParseSlotKey("2025-06-02|19")
	require.True(t, ok)
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	doc, etag, err := repo.Load(ctx)
	require.NoError(t, err)
	doc.Toggle(slot, "bob", true, now)
	doc.Toggle(slot, "Alice", true, now)

	first, err := repo.SaveIfMatch(ctx, doc, etag)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	obj, err := store.Get(ctx, DocumentKey)
	require.NoError(t, err)
	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(obj.Data, &stored))
	assert.Equal(t, "2025-06-01T09:00:00.000Z", stored["updatedAt"])
	assert.Equal(t, map[string]interface{}{
		"2025-06-02|19": map[string]interface{}{"a": []interface{}{"Alice", "bob"}},
	}, stored["slots"])

	_, err = repo.SaveIfMatch(ctx, doc, etag)
	assert.ErrorIs(t, err, ErrVersionConflict, "stale empty tag must not overwrite")

	loaded, loadedTag, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, loadedTag)
	assert.Equal(t, []string{"Alice", "bob"}, loaded.Attendees(slot))
	assert.Equal(t, now, loaded.UpdatedAt)
}

func TestRepository_LoadSelfHeals(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Put(ctx, DocumentKey, []byte(`{
		"version": 1,
		"slots": {
			"2025-06-02|19": {"a": ["bob", "Alice", "bob", 3]},
			"2025-06-02|99": {"a": ["Alice"]},
			"garbage": "x",
			"2025-06-03|17": {"a": []}
		}
	}`))
	require.NoError(t, err)

	doc, _, err := NewRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2025-06-02|19": {"Alice", "bob"}}, doc.Slots)
}

func TestRepository_Unavailable(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(unavailableStore{})

	_, _, err := repo.Load(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = repo.SaveIfMatch(ctx, domain.NewSharedDocument(), "tag")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
