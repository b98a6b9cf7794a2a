package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/railcheck/internal/verify"
)

func TestDayLabelFormat(t *testing.T) {
	// 2025-08-05 is a Tuesday.
	target := TargetFor(time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Tue Aug 05 2025", target.DayLabel())
	assert.Equal(t, "August 2025", target.Caption())
}

func TestDayLabelWeekdayAlwaysMatchesDate(t *testing.T) {
	d := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		target := TargetFor(d)
		assert.Equal(t, d.Format("Mon Jan 02 2006"), target.DayLabel())
		d = d.AddDate(0, 0, 1)
	}
}

func TestNextFriday(t *testing.T) {
	cases := []struct {
		from time.Time
		want time.Time
	}{
		// Monday -> same week Friday
		{time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)},
		// Thursday -> next day
		{time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)},
		// Friday rolls over a full week
		{time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)},
		// Saturday
		{time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := NextFriday(tc.from)
		assert.Equal(t, tc.want, got, "from %s", tc.from.Weekday())
		assert.Equal(t, time.Friday, got.Weekday())
	}
}

// fakeWidget simulates the picker: a caption sequence, an optional point at
// which the next control goes disabled, and a set of selectable day labels.
type fakeWidget struct {
	captions   []string
	idx        int
	advances   int
	disabledAt int // advance index at which the control is disabled; -1 for never
	days       []string
	picked     string
}

func (f *fakeWidget) Caption() (string, error) {
	return f.captions[f.idx], nil
}

func (f *fakeWidget) Advance() (bool, error) {
	if f.disabledAt >= 0 && f.advances >= f.disabledAt {
		return false, nil
	}
	f.advances++
	if f.idx < len(f.captions)-1 {
		f.idx++
	}
	return true, nil
}

func (f *fakeWidget) Pick(label string) (bool, error) {
	for _, d := range f.days {
		if d == label {
			f.picked = label
			return true, nil
		}
	}
	return false, nil
}

func TestSelectDateAdvancesExactlyToTargetMonth(t *testing.T) {
	// Calendar opens on March 2025, target June 2025: three page turns.
	w := &fakeWidget{
		captions:   []string{"March 2025", "April 2025", "May 2025", "June 2025"},
		disabledAt: -1,
		days:       []string{"Fri Jun 06 2025"},
	}
	ledger := verify.NewLedger(nil, nil)
	nav := NewNavigator(w, ledger, nil)

	err := nav.SelectDate(TargetFor(time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 3, w.advances)
	assert.Equal(t, "Fri Jun 06 2025", w.picked)
	assert.NoError(t, ledger.Finish())
}

func TestSelectDateIsIdempotentOnTargetMonth(t *testing.T) {
	w := &fakeWidget{
		captions:   []string{"June 2025"},
		disabledAt: -1,
		days:       []string{"Fri Jun 06 2025"},
	}
	nav := NewNavigator(w, verify.NewLedger(nil, nil), nil)

	require.NoError(t, nav.SelectDate(TargetFor(time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC))))
	assert.Zero(t, w.advances)
}

func TestSelectDateCaptionMatchIsCaseInsensitive(t *testing.T) {
	w := &fakeWidget{
		captions:   []string{"JUNE 2025"},
		disabledAt: -1,
		days:       []string{"Fri Jun 06 2025"},
	}
	nav := NewNavigator(w, verify.NewLedger(nil, nil), nil)
	assert.NoError(t, nav.SelectDate(TargetFor(time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC))))
}

func TestSelectDateHaltsWhenNextControlDisabled(t *testing.T) {
	w := &fakeWidget{
		captions:   []string{"March 2025", "April 2025"},
		disabledAt: 1,
		days:       []string{"Fri Jun 06 2025"},
	}
	ledger := verify.NewLedger(nil, nil)
	nav := NewNavigator(w, ledger, nil)

	err := nav.SelectDate(TargetFor(time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)))

	var halt *verify.HaltError
	require.ErrorAs(t, err, &halt)
	assert.Empty(t, w.picked, "nothing may be selected after a failed pagination")
}

func TestSelectDateHaltsBeyondOneYear(t *testing.T) {
	captions := make([]string, 13)
	d := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := range captions {
		captions[i] = d.Format("January 2006")
		d = d.AddDate(0, 1, 0)
	}
	w := &fakeWidget{captions: captions, disabledAt: -1, days: []string{"Sat Aug 01 2026"}}
	ledger := verify.NewLedger(nil, nil)
	nav := NewNavigator(w, ledger, nil)

	// Target is 17 months out, past the pagination bound.
	err := nav.SelectDate(TargetFor(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)))

	var halt *verify.HaltError
	require.ErrorAs(t, err, &halt)
	assert.Equal(t, maxMonthPages, w.advances)
	assert.Empty(t, w.picked)
}

func TestSelectDateHaltsWhenDayNodeMissing(t *testing.T) {
	w := &fakeWidget{
		captions:   []string{"June 2025"},
		disabledAt: -1,
		days:       []string{"Sat Jun 07 2025"},
	}
	ledger := verify.NewLedger(nil, nil)
	nav := NewNavigator(w, ledger, nil)

	err := nav.SelectDate(TargetFor(time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)))

	var halt *verify.HaltError
	require.ErrorAs(t, err, &halt)
	assert.Contains(t, halt.Message, "Fri Jun 06 2025")
}
