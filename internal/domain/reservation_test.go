package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReservation_Overlaps(t *testing.T) {
	r := &Reservation{
		StartDate: day(2025, 3, 1),
		EndDate:   day(2025, 3, 31),
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"FullyBefore", day(2025, 1, 1), day(2025, 2, 28), false},
		{"FullyAfter", day(2025, 4, 1), day(2025, 5, 1), false},
		{"TouchingStart", day(2025, 2, 1), day(2025, 3, 1), true},
		{"TouchingEnd", day(2025, 3, 31), day(2025, 4, 30), true},
		{"Contained", day(2025, 3, 10), day(2025, 3, 20), true},
		{"Containing", day(2025, 2, 1), day(2025, 5, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Overlaps(tt.start, tt.end))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 30, DaysBetween(day(2025, 1, 1), day(2025, 1, 31)))
	assert.Equal(t, 0, DaysBetween(day(2025, 1, 1), day(2025, 1, 1)))
	assert.Equal(t, -1, DaysBetween(day(2025, 1, 2), day(2025, 1, 1)))
	// A partial day counts as a full day.
	assert.Equal(t, 2, DaysBetween(day(2025, 1, 1), time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC)))
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange(30))
	assert.NoError(t, ValidateDateRange(90))
	assert.ErrorIs(t, ValidateDateRange(29), ErrMinimumDuration)
	assert.ErrorIs(t, ValidateDateRange(0), ErrInvalidRange)
	assert.ErrorIs(t, ValidateDateRange(-5), ErrInvalidRange)
}

func TestReservationStatus_IsTerminal(t *testing.T) {
	assert.False(t, ReservationStatusPending.IsTerminal())
	assert.False(t, ReservationStatusActive.IsTerminal())
	assert.True(t, ReservationStatusCompleted.IsTerminal())
	assert.True(t, ReservationStatusCancelled.IsTerminal())
}

func TestReservationPatch_Empty(t *testing.T) {
	assert.True(t, (&ReservationPatch{}).Empty())

	plate := "99999-B-1"
	assert.False(t, (&ReservationPatch{PlateNumber: &plate}).Empty())
}
