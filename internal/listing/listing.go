// Package listing scans the train results listing: extract a structured
// record per card, validate per-option price invariants, and pick the first
// card with an available seat option.
//
// Precondition: any departure-time constraint has already been applied
// through the UI filters, so selection here is strictly first-available in
// document order, not best-match.
package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatOption is one availability entry under a listing card. Only options
// whose content indicates availability are extracted.
type SeatOption struct {
	Class        string
	Availability string
	PriceText    string
}

// Entry is the structured record of one listing card.
type Entry struct {
	Name     string
	Schedule string
	Options  []SeatOption
}

// ParsePrice strips every non-digit character from a free-text price and
// parses the remainder, e.g. "₹1,499" -> 1499. ok is false when the text
// carries no digits at all; that is a data-quality finding for the caller
// to report, never an error.
func ParsePrice(text string) (int, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// Only possible on overflow; treat like missing digits.
		return 0, false
	}
	return n, true
}

// FirstAvailable returns the indices of the first card (in document order)
// holding at least one available option, and that card's first option.
// First match wins; later cards never override the selection.
func FirstAvailable(entries []Entry) (card, option int, ok bool) {
	for i, e := range entries {
		if len(e.Options) > 0 {
			return i, 0, true
		}
	}
	return 0, 0, false
}

// Reporter is the slice of the verification ledger the validation pass uses.
type Reporter interface {
	Verify(ok bool, msg string)
}

// Validate runs the structural price check over every option of every card,
// independent of which one was selected. Violations are soft failures.
func Validate(rep Reporter, entries []Entry) {
	for _, e := range entries {
		for _, opt := range e.Options {
			price, ok := ParsePrice(opt.PriceText)
			msg := fmt.Sprintf("for travel class = %s price shall be non-zero | current ticket price = %s | %s",
				opt.Class, opt.PriceText, opt.Availability)
			rep.Verify(ok && price > 0, msg)
		}
	}
}

// Journey is the schedule breakdown parsed from a card's raw schedule text.
type Journey struct {
	DepartureTime    string
	DepartureStation string
	Duration         string
	ArrivalTime      string
	ArrivalStation   string
}

// ParseSchedule splits the raw multi-line schedule text of a card. Layout:
// departure time/date, departure station, duration, a "View Route" link
// line, arrival time/date, arrival station.
func ParseSchedule(raw string) (Journey, bool) {
	parts := strings.Split(raw, "\n")
	if len(parts) < 6 {
		return Journey{}, false
	}
	return Journey{
		DepartureTime:    strings.TrimSpace(parts[0]),
		DepartureStation: strings.TrimSpace(parts[1]),
		Duration:         strings.TrimSpace(parts[2]),
		ArrivalTime:      strings.TrimSpace(parts[4]),
		ArrivalStation:   strings.TrimSpace(parts[5]),
	}, true
}

func (j Journey) String() string {
	return fmt.Sprintf("departs %s at %s, arrives %s at %s, estimated %s",
		j.DepartureStation, j.DepartureTime, j.ArrivalStation, j.ArrivalTime, j.Duration)
}
