package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/memory"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*blobstore.Object, error) {
	return nil, blobstore.ErrUnavailable
}

func TestParseWhitelist(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []domain.RosterEntry
	}{
		{
			name: "valid document",
			data: `{"users":[{"name":" Alice ","role":"Coach"},{"name":"bob"}]}`,
			want: []domain.RosterEntry{
				{DisplayName: "Alice", Role: domain.RoleCoach},
				{DisplayName: "bob", Role: domain.RolePlayer},
			},
		},
		{
			name: "junk entries dropped",
			data: `{"users":[{"name":""},{"role":"sub"},"x",{"name":"Émile","role":"wizard"},{"name":1337,"role":"sub"}]}`,
			want: []domain.RosterEntry{
				{DisplayName: "Émile", Role: domain.RolePlayer},
				{DisplayName: "1337", Role: domain.RoleSub},
			},
		},
		{name: "users missing", data: `{}`, want: []domain.RosterEntry{}},
		{name: "malformed", data: `[`, want: []domain.RosterEntry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWhitelist([]byte(tt.data)))
		})
	}
}

func TestRepository_GetEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewRepository(store, "")

	entries, err := repo.GetEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.Put(ctx, DefaultWhitelistKey, []byte(`{"users":[{"name":"Alice","role":"director"}]}`))
	require.NoError(t, err)

	entries, err = repo.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.RosterEntry{{DisplayName: "Alice", Role: domain.RoleDirector}}, entries)
}

func TestRepository_Unavailable(t *testing.T) {
	_, err := NewRepository(failingStore{}, "").GetEntries(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
