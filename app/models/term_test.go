package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *CustomDate {
	return &CustomDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestTermIsCurrentByDate(t *testing.T) {
	term := &Term{
		Name:      "Term 2",
		Year:      2026,
		StartDate: date(2026, time.May, 4),
		EndDate:   date(2026, time.August, 7),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "inside the term", now: time.Date(2026, time.June, 15, 10, 30, 0, 0, time.UTC), want: true},
		{name: "first day counts", now: time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC), want: true},
		{name: "last day counts", now: time.Date(2026, time.August, 7, 16, 0, 0, 0, time.UTC), want: true},
		{name: "day before start", now: time.Date(2026, time.May, 3, 23, 0, 0, 0, time.UTC), want: false},
		{name: "day after end", now: time.Date(2026, time.August, 8, 0, 0, 0, 0, time.UTC), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, term.IsCurrentByDate(tt.now))
		})
	}
}

func TestTermWithoutDatesUsesFlag(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	flagged := &Term{Name: "Term 2", Year: 2026, IsCurrent: true}
	assert.True(t, flagged.IsCurrentByDate(now))

	unflagged := &Term{Name: "Term 3", Year: 2026}
	assert.False(t, unflagged.IsCurrentByDate(now))
}

func TestTermCheckDates(t *testing.T) {
	ordered := &Term{Name: "Term 1", Year: 2026, StartDate: date(2026, time.January, 5), EndDate: date(2026, time.April, 10)}
	assert.NoError(t, ordered.CheckDates())

	dateless := &Term{Name: "Term 1", Year: 2026}
	assert.NoError(t, dateless.CheckDates())

	inverted := &Term{Name: "Term 1", Year: 2026, StartDate: date(2026, time.April, 10), EndDate: date(2026, time.January, 5)}
	var valErr *ValidationError
	assert.ErrorAs(t, inverted.CheckDates(), &valErr)
}

func TestTermLabel(t *testing.T) {
	term := &Term{Name: "Term 1", Year: 2026}
	assert.Equal(t, "Term 1 2026", term.Label())
}
