// Package calendar navigates the site's custom month-at-a-time date picker:
// paginate to the target month, then select the day node whose composite
// aria-label (weekday + month + day + year) matches the target date.
package calendar

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/verify"
)

// maxMonthPages bounds forward pagination to one year so a stuck widget
// cannot loop forever.
const maxMonthPages = 12

// Target identifies one selectable day. Construct it through TargetFor so
// the weekday baked into the composite label always matches the date; the
// widget matches day nodes by the full label, so a mismatched weekday could
// never match any node.
type Target struct {
	Year  int
	Month time.Month
	Day   int
}

// TargetFor derives a Target from a calendar date.
func TargetFor(d time.Time) Target {
	return Target{Year: d.Year(), Month: d.Month(), Day: d.Day()}
}

func (t Target) date() time.Time {
	return time.Date(t.Year, t.Month, t.Day, 0, 0, 0, 0, time.UTC)
}

// Caption is the month/year heading the widget shows, e.g. "June 2025".
func (t Target) Caption() string {
	return t.date().Format("January 2006")
}

// DayLabel is the composite label of the day node, e.g. "Tue Aug 05 2025".
// This is the exact format the widget exposes; day is zero-padded.
func (t Target) DayLabel() string {
	return t.date().Format("Mon Jan 02 2006")
}

// NextFriday returns the first Friday strictly after from. A Friday rolls
// over to next week's.
func NextFriday(from time.Time) time.Time {
	days := int(time.Friday) - int(from.Weekday())
	if days <= 0 {
		days += 7
	}
	return from.AddDate(0, 0, days)
}

// Widget is the minimal surface of an open date-picker the navigator needs.
type Widget interface {
	// Caption returns the currently displayed month/year heading.
	Caption() (string, error)
	// Advance pages one month forward and waits for the caption to
	// re-render. It returns false when the next-month control is disabled.
	Advance() (bool, error)
	// Pick scans the rendered, non-disabled day nodes and clicks the first
	// whose label equals label. It returns false when none matches.
	Pick(label string) (bool, error)
}

// Navigator drives a Widget to a target date.
type Navigator struct {
	w      Widget
	ledger *verify.Ledger
	log    *zap.Logger
}

// NewNavigator creates a navigator reporting to the given ledger.
func NewNavigator(w Widget, ledger *verify.Ledger, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Navigator{w: w, ledger: ledger, log: log}
}

// SelectDate paginates to the target month and selects the target day.
// An unreachable month (next control disabled, or more than a year away)
// and an unmatched day label are both hard failures: the workflow cannot
// book anything without a travel date.
func (n *Navigator) SelectDate(t Target) error {
	wantCaption := t.Caption()
	n.log.Info("selecting date", zap.String("target", t.DayLabel()))

	reached := false
	for i := 0; i < maxMonthPages; i++ {
		caption, err := n.w.Caption()
		if err != nil {
			return n.ledger.Halt("reading calendar caption: " + err.Error())
		}
		if strings.EqualFold(strings.TrimSpace(caption), wantCaption) {
			reached = true
			break
		}
		ok, err := n.w.Advance()
		if err != nil {
			return n.ledger.Halt("paging calendar forward: " + err.Error())
		}
		if !ok {
			return n.ledger.Halt("next month control disabled, cannot reach: " + wantCaption)
		}
	}
	if !reached {
		caption, err := n.w.Caption()
		if err != nil || !strings.EqualFold(strings.TrimSpace(caption), wantCaption) {
			return n.ledger.Halt("target month not reachable within a year: " + wantCaption)
		}
	}

	label := t.DayLabel()
	found, err := n.w.Pick(label)
	if err != nil {
		return n.ledger.Halt("scanning calendar days: " + err.Error())
	}
	if !found {
		return n.ledger.Halt("could not find the expected date: " + label)
	}
	n.ledger.Pass("selected date: " + label)
	return nil
}
