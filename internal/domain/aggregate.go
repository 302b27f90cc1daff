package domain

import (
	"strings"
	"time"
)

// AggregatedView is the read-only fold of every member's availability.
// It is recomputed on each read and never persisted.
type AggregatedView struct {
	Version   int
	UpdatedAt time.Time
	Slots     map[string][]string // slot key -> attendees, locale sorted
}

// SharedDocument is the legacy single-document layout: the whole aggregate in one blob,
// guarded by the blob version tag.
type SharedDocument struct {
	Version   int
	UpdatedAt time.Time
	Slots     map[string][]string
}

// NewSharedDocument returns an empty shared document
func NewSharedDocument() *SharedDocument {
	return &SharedDocument{
		Version: SharedDocumentVersion,
		Slots:   map[string][]string{},
	}
}

// Normalize drops invalid slot keys, dedupes and sorts attendees and prunes empty slots
func (d *SharedDocument) Normalize() {
	d.Version = SharedDocumentVersion
	slots := make(map[string][]string, len(d.Slots))

	for raw, names := range d.Slots {
		key, ok := ParseSlotKey(strings.TrimSpace(raw))
		if !ok {
			continue
		}
		canonical := key.String()
		merged := SortDisplayNames(append(slots[canonical], names...))
		if len(merged) == 0 {
			continue
		}
		slots[canonical] = merged
	}

	d.Slots = slots
}

// Toggle adds or removes a member from one slot. The slot entry is pruned
// once nobody is left in it. Member names are matched case-insensitively.
func (d *SharedDocument) Toggle(slot SlotKey, displayName string, available bool, now time.Time) {
	if d.Slots == nil {
		d.Slots = map[string][]string{}
	}

	key := slot.String()
	target := NormalizeName(displayName)
	names := make([]string, 0, len(d.Slots[key])+1)

	for _, n := range d.Slots[key] {
		if NormalizeName(n) == target {
			continue
		}
		names = append(names, n)
	}
	if available {
		names = append(names, strings.TrimSpace(displayName))
	}

	names = SortDisplayNames(names)
	if len(names) == 0 {
		delete(d.Slots, key)
	} else {
		d.Slots[key] = names
	}

	d.Version = SharedDocumentVersion
	d.UpdatedAt = now
}

// Attendees returns the attendees of one slot
func (d *SharedDocument) Attendees(slot SlotKey) []string {
	names := d.Slots[slot.String()]
	out := make([]string, len(names))
	copy(out, names)
	return out
}
