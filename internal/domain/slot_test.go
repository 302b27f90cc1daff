package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotKey_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		year int
		mon  time.Month
		day  int
		hour int
	}{
		{raw: "2025-06-02|19", year: 2025, mon: time.June, day: 2, hour: 19},
		{raw: "2025-06-02|17", year: 2025, mon: time.June, day: 2, hour: 17},
		{raw: "2025-06-02|22", year: 2025, mon: time.June, day: 2, hour: 22},
		{raw: "2024-02-29|20", year: 2024, mon: time.February, day: 29, hour: 20},
		{raw: "2025-12-31|21", year: 2025, mon: time.December, day: 31, hour: 21},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, ok := ParseSlotKey(tt.raw)
			require.True(t, ok)
			assert.Equal(t, time.Date(tt.year, tt.mon, tt.day, 0, 0, 0, 0, time.UTC), key.Date)
			assert.Equal(t, tt.hour, key.Hour)
			assert.Equal(t, tt.raw, key.String())
		})
	}
}

func TestParseSlotKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "hour below range", raw: "2025-06-02|16"},
		{name: "hour above range", raw: "2025-06-02|23"},
		{name: "legacy wide range", raw: "2025-06-02|9"},
		{name: "non integer hour", raw: "2025-06-02|1a"},
		{name: "fractional hour", raw: "2025-06-02|19.5"},
		{name: "padded three digit hour", raw: "2025-06-02|019"},
		{name: "month 13", raw: "2025-13-02|19"},
		{name: "day 32", raw: "2025-01-32|19"},
		{name: "february 30", raw: "2024-02-30|19"},
		{name: "february 29 non leap", raw: "2025-02-29|19"},
		{name: "month zero", raw: "2025-00-10|19"},
		{name: "day zero", raw: "2025-06-00|19"},
		{name: "missing separator", raw: "2025-06-02 19"},
		{name: "wrong separator", raw: "2025-06-02#19"},
		{name: "short year", raw: "25-06-02|19"},
		{name: "unpadded month", raw: "2025-6-02|19"},
		{name: "trailing garbage", raw: "2025-06-02|19|x"},
		{name: "leading space", raw: " 2025-06-02|19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseSlotKey(tt.raw)
			assert.False(t, ok)
			assert.False(t, IsValidSlotKey(tt.raw))
		})
	}
}

func TestSlotKey_RoundTrip(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 366; day += 7 {
		for hour := MinHour; hour <= MaxHour; hour++ {
			slot, err := NewSlotKey(start.AddDate(0, 0, day), hour)
			require.NoError(t, err)

			parsed, ok := ParseSlotKey(slot.String())
			require.True(t, ok, slot.String())
			assert.Equal(t, slot, parsed)
		}
	}
}

func TestNewSlotKey(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)

	// 00:30 in Paris on the 3rd is still the 3rd for the caller
	slot, err := NewSlotKey(time.Date(2025, time.June, 3, 0, 30, 0, 0, paris), 20)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03|20", slot.String())

	_, err = NewSlotKey(time.Now(), MaxHour+1)
	assert.ErrorIs(t, err, ErrInvalidSlotKey)

	_, err = NewSlotKey(time.Now(), MinHour-1)
	assert.ErrorIs(t, err, ErrInvalidSlotKey)
}

func TestSlotKey_StartsAt(t *testing.T) {
	slot, ok := ParseSlotKey("2025-06-02|19")
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC), slot.StartsAt(time.UTC))
	assert.False(t, slot.IsZero())
	assert.True(t, SlotKey{}.IsZero())
}

func TestFilterSlotKeys(t *testing.T) {
	raw := []string{
		"2025-06-03|18",
		" 2025-06-02|19 ",
		"2025-06-02|19",
		"2025-06-02|9",
		"2024-02-30|19",
		"garbage",
		"",
		"2025-06-02|17",
	}

	assert.Equal(t, []string{"2025-06-02|17", "2025-06-02|19", "2025-06-03|18"}, FilterSlotKeys(raw))
	assert.Empty(t, FilterSlotKeys(nil))
	assert.NotNil(t, FilterSlotKeys(nil))
}
