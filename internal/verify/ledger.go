// Package verify holds the per-run verification ledger. Soft failures are
// recorded and the run keeps going; hard failures halt the current run after
// capturing a diagnostic screenshot. The ledger is consumed once at run end
// to produce a single verdict covering every recorded failure.
package verify

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies a ledger record.
type Level int

const (
	Pass Level = iota
	Fail
	Error
)

func (l Level) String() string {
	switch l {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Record is a single appended verification outcome.
type Record struct {
	Level      Level     `json:"level"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
	Attachment string    `json:"attachment,omitempty"` // diagnostic file name, if captured
}

// CaptureFunc captures a diagnostic snapshot of current browser state and
// returns a reference to the stored attachment.
type CaptureFunc func(label string) (string, error)

// HaltError signals a precondition violation the workflow cannot continue
// past. It is returned by Ledger.Halt and propagated up to abort the run.
type HaltError struct {
	Message string
}

func (e *HaltError) Error() string {
	return "run halted: " + e.Message
}

// Ledger is an append-only sequence of verification records scoped to one
// workflow run. Writes are safe for concurrent use.
type Ledger struct {
	log     *zap.Logger
	capture CaptureFunc

	mu      sync.Mutex
	records []Record
}

// NewLedger creates a ledger for a single run. capture may be nil when no
// diagnostic sink is wired (tests).
func NewLedger(log *zap.Logger, capture CaptureFunc) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{log: log, capture: capture}
}

func (l *Ledger) append(rec Record) {
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
}

// snapshot captures browser state for a failing record. Capture errors are
// logged, never escalated: the failure being reported matters more.
func (l *Ledger) snapshot(label string) string {
	if l.capture == nil {
		return ""
	}
	ref, err := l.capture(label)
	if err != nil {
		l.log.Warn("diagnostic capture failed", zap.String("label", label), zap.Error(err))
		return ""
	}
	return ref
}

// Pass records a successful verification.
func (l *Ledger) Pass(msg string) {
	l.log.Info("✅ " + msg)
	l.append(Record{Level: Pass, Message: msg, At: time.Now()})
}

// Fail records a soft failure with a diagnostic snapshot. Control flow is
// not interrupted; the failure surfaces in the final verdict.
func (l *Ledger) Fail(msg string) {
	l.log.Error("❌ " + msg)
	l.append(Record{
		Level:      Fail,
		Message:    msg,
		At:         time.Now(),
		Attachment: l.snapshot("failure"),
	})
}

// Halt records a hard failure with a diagnostic snapshot and returns the
// error that aborts the current run.
func (l *Ledger) Halt(msg string) error {
	l.log.Error("❌ " + msg)
	l.append(Record{
		Level:      Error,
		Message:    msg,
		At:         time.Now(),
		Attachment: l.snapshot("error"),
	})
	return &HaltError{Message: msg}
}

// Verify routes a boolean check to Pass or Fail.
func (l *Ledger) Verify(ok bool, msg string) {
	if ok {
		l.Pass(msg)
	} else {
		l.Fail(msg)
	}
}

// Compare checks actual against expected by structural equality and records
// the outcome. Both values being nil counts as a pass. Compare never panics
// and never interrupts control flow.
func (l *Ledger) Compare(actual, expected any, msg string) {
	msg = "[Validation] " + msg
	switch {
	case actual == nil && expected == nil:
		l.Pass(msg + " - actual and expected both nil")
	case reflect.DeepEqual(actual, expected):
		l.Pass(fmt.Sprintf("%s - comparison passed. Expected: %v, Actual: %v", msg, expected, actual))
	default:
		l.Fail(fmt.Sprintf("%s - comparison failed. Expected: %v, Actual: %v", msg, expected, actual))
	}
}

// Records returns a copy of everything appended so far, in order.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Finish produces the run verdict. If any soft failure was recorded the
// returned error carries every failure message, not just the first.
func (l *Ledger) Finish() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var failures []string
	for _, rec := range l.records {
		if rec.Level == Fail || rec.Level == Error {
			failures = append(failures, rec.Message)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d verification failure(s):\n  - %s",
		len(failures), strings.Join(failures, "\n  - "))
}
