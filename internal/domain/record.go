package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var memberKeyUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)

// AvailabilityRecord is one member's set of available slots.
// It is owned by exactly one member; the storage key is derived from the
// server-verified identity, never from client input.
type AvailabilityRecord struct {
	Version        int
	DisplayName    string
	UpdatedAt      time.Time
	AvailableSlots []string // canonical slot keys, deduplicated and sorted after Normalize
}

// NewAvailabilityRecord returns an empty record for a member who never scheduled anything
func NewAvailabilityRecord(displayName string) *AvailabilityRecord {
	return &AvailabilityRecord{
		Version:        RecordVersion,
		DisplayName:    strings.TrimSpace(displayName),
		AvailableSlots: []string{},
	}
}

// Normalize drops invalid and duplicate slot keys and sorts the rest
func (r *AvailabilityRecord) Normalize() {
	r.Version = RecordVersion
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.AvailableSlots = FilterSlotKeys(r.AvailableSlots)
}

// Has returns true if the member marked the slot as available
func (r *AvailabilityRecord) Has(slot SlotKey) bool {
	key := slot.String()
	for _, s := range r.AvailableSlots {
		if s == key {
			return true
		}
	}
	return false
}

// SetAvailable adds or removes the slot. Returns true if the set changed.
func (r *AvailabilityRecord) SetAvailable(slot SlotKey, available bool) bool {
	key := slot.String()
	out := make([]string, 0, len(r.AvailableSlots)+1)
	found := false

	for _, s := range r.AvailableSlots {
		if s == key {
			found = true
			if !available {
				continue
			}
		}
		out = append(out, s)
	}

	if available && !found {
		out = append(out, key)
		sort.Strings(out)
	}

	r.AvailableSlots = out
	return found != available
}

// ValidSlots returns the parsed slot keys, silently skipping anything invalid
func (r *AvailabilityRecord) ValidSlots() []SlotKey {
	out := make([]SlotKey, 0, len(r.AvailableSlots))
	for _, raw := range FilterSlotKeys(r.AvailableSlots) {
		if key, ok := ParseSlotKey(raw); ok {
			out = append(out, key)
		}
	}
	return out
}

// NormalizeName is the case-insensitive comparison form of a display name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MemberKey derives the storage-safe member identifier from a display name:
// lowercase, with every run of characters outside [a-z0-9_-] collapsed to "_".
func MemberKey(displayName string) string {
	return memberKeyUnsafe.ReplaceAllString(NormalizeName(displayName), "_")
}
