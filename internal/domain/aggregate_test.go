package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortDisplayNames(t *testing.T) {
	got := SortDisplayNames([]string{"bob", "Émile", "Alice", "  ", "Fabien", "Eddy", "Alice", "zoé"})

	assert.Equal(t, []string{"Alice", "bob", "Eddy", "Émile", "Fabien", "zoé"}, got)
}

func TestSortDisplayNames_Deterministic(t *testing.T) {
	a := SortDisplayNames([]string{"Charlie", "alice", "Bob"})
	b := SortDisplayNames([]string{"Bob", "Charlie", "alice"})

	assert.Equal(t, a, b)
	assert.Equal(t, []string{"alice", "Bob", "Charlie"}, a)
}

func TestSharedDocument_Toggle(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	slot := mustSlot(t, "2025-06-02|19")
	doc := NewSharedDocument()

	doc.Toggle(slot, "Alice", true, now)
	doc.Toggle(slot, "bob", true, now)
	doc.Toggle(slot, "Bob", true, now)
	assert.Equal(t, []string{"Alice", "Bob"}, doc.Attendees(slot))
	assert.Equal(t, now, doc.UpdatedAt)

	doc.Toggle(slot, "ALICE", false, now)
	assert.Equal(t, []string{"Bob"}, doc.Attendees(slot))

	doc.Toggle(slot, "Bob", false, now)
	_, exists := doc.Slots[slot.String()]
	assert.False(t, exists, "empty slot must be pruned")
}

func TestSharedDocument_Normalize(t *testing.T) {
	doc := &SharedDocument{
		Slots: map[string][]string{
			"2025-06-02|19": {"bob", "Alice", "bob"},
			"2025-06-02|9":  {"Alice"},
			"2025-06-03|20": {},
			"nonsense":      {"x"},
		},
	}

	doc.Normalize()

	assert.Equal(t, SharedDocumentVersion, doc.Version)
	assert.Equal(t, map[string][]string{"2025-06-02|19": {"Alice", "bob"}}, doc.Slots)
}
