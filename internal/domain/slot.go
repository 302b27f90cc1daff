package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var slotKeyPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\|(\d{1,2})$`)

// SlotKey identifies a one-hour session: a calendar date plus its starting hour.
// Date is always normalised to midnight UTC so that two keys for the same slot compare equal.
type SlotKey struct {
	Date time.Time
	Hour int
}

// NewSlotKey builds a slot key from any time on the wanted calendar day
func NewSlotKey(date time.Time, hour int) (SlotKey, error) {
	if hour < MinHour || hour > MaxHour {
		return SlotKey{}, fmt.Errorf("%w: hour %d is outside [%d, %d]", ErrInvalidSlotKey, hour, MinHour, MaxHour)
	}
	y, m, d := date.Date()
	return SlotKey{
		Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Hour: hour,
	}, nil
}

// ParseSlotKey parses the canonical "YYYY-MM-DD|H" form.
// Malformed input is not an error: stored data may still contain keys from an older,
// wider hour range, and callers are expected to drop those.
func ParseSlotKey(raw string) (SlotKey, bool) {
	m := slotKeyPattern.FindStringSubmatch(raw)
	if m == nil {
		return SlotKey{}, false
	}

	hour, err := strconv.Atoi(m[2])
	if err != nil || hour < MinHour || hour > MaxHour {
		return SlotKey{}, false
	}

	date, ok := parseCalendarDate(m[1])
	if !ok {
		return SlotKey{}, false
	}

	return SlotKey{Date: date, Hour: hour}, true
}

// IsValidSlotKey reports whether raw is a well-formed slot key within the allowed hours
func IsValidSlotKey(raw string) bool {
	_, ok := ParseSlotKey(raw)
	return ok
}

// String returns the canonical form, hour unpadded (same form the web client produces)
func (s SlotKey) String() string {
	return s.Date.Format(DateFormat) + SlotKeySeparator + strconv.Itoa(s.Hour)
}

// IsZero returns true for the zero slot key
func (s SlotKey) IsZero() bool {
	return s.Date.IsZero() && s.Hour == 0
}

// StartsAt returns the slot start as wall-clock time in loc
func (s SlotKey) StartsAt(loc *time.Location) time.Time {
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, s.Hour, 0, 0, 0, loc)
}

// FilterSlotKeys trims, drops invalid entries, removes duplicates and sorts.
// The result only contains canonical slot key strings.
func FilterSlotKeys(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, r := range raw {
		key, ok := ParseSlotKey(strings.TrimSpace(r))
		if !ok {
			continue
		}
		canonical := key.String()
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}

	sort.Strings(out)
	return out
}

// parseCalendarDate anchors the date at noon UTC and checks that it round-trips,
// which rejects impossible dates like 2024-02-30 or month 13 that time.Date would normalise.
func parseCalendarDate(raw string) (time.Time, bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}

	noon := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	if noon.Format(DateFormat) != raw {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
