package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a condition was never satisfied within its
// bound. A timed-out wait is terminal for that call; nothing retries it.
var ErrTimeout = errors.New("condition not satisfied before timeout")

// Timeouts mirror the widget behavior of the target site: the primary
// navigation context gets the long window, secondary checks shorter ones.
const (
	DefaultPoll     = 500 * time.Millisecond
	VisibleTimeout  = 20 * time.Second
	OptionalTimeout = 10 * time.Second
	GoneTimeout     = 5 * time.Second
	URLTimeout      = 5 * time.Second
)

// Kind selects which DOM condition a wait polls for.
type Kind int

const (
	// KindVisible succeeds once the first node matching the locator exists
	// and is render-visible.
	KindVisible Kind = iota
	// KindHidden succeeds once no matching node is visible; absence counts.
	KindHidden
	// KindTextChanged succeeds once the matched node's text differs from
	// the reference snapshot. Detects async re-renders without fixed sleeps.
	KindTextChanged
	// KindURLIs succeeds once the page address equals the reference value.
	KindURLIs
)

// Condition is one wait: a locator (XPath), an optional reference value,
// and its own timeout and poll interval. Exactly one condition is active
// per Resolve call.
type Condition struct {
	Kind     Kind
	Selector string
	Ref      string
	Timeout  time.Duration
	Interval time.Duration
}

// Visible waits for the first matching node to be rendered.
func Visible(selector string) Condition {
	return Condition{Kind: KindVisible, Selector: selector, Timeout: VisibleTimeout, Interval: DefaultPoll}
}

// Hidden waits for every matching node to be gone or invisible.
func Hidden(selector string) Condition {
	return Condition{Kind: KindHidden, Selector: selector, Timeout: GoneTimeout, Interval: DefaultPoll}
}

// TextChanged waits for the matched node's text to differ from prev.
func TextChanged(selector, prev string) Condition {
	return Condition{Kind: KindTextChanged, Selector: selector, Ref: prev, Timeout: OptionalTimeout, Interval: DefaultPoll}
}

// URLIs waits for the current page address to equal expected.
func URLIs(expected string) Condition {
	return Condition{Kind: KindURLIs, Selector: "", Ref: expected, Timeout: URLTimeout, Interval: DefaultPoll}
}

// pollUntil runs check at the given interval until it reports done or the
// deadline passes. Cooperative polling, not event subscription: the browser
// surface exposes no change notifications.
func pollUntil(timeout, interval time.Duration, check func(attempt int) (bool, error)) error {
	if interval <= 0 {
		interval = DefaultPoll
	}
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		done, err := check(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if !time.Now().Add(interval).Before(deadline) {
			return ErrTimeout
		}
		time.Sleep(interval)
	}
}

// Resolve polls the page until the condition is satisfied or its timeout
// elapses. For visibility and text conditions the matched element handle is
// returned; for the others the handle is nil. Transient query errors during
// a poll are treated as "not yet" and only surface if the wait times out.
func (e *Engine) Resolve(cond Condition, desc string) (*rod.Element, error) {
	start := time.Now()
	var matched *rod.Element
	var lastErr error

	err := pollUntil(cond.Timeout, cond.Interval, func(attempt int) (bool, error) {
		ok, el, err := e.check(cond)
		lastErr = err
		matched = el
		e.log.Debug("wait poll",
			zap.String("target", desc),
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", time.Since(start)))
		if err != nil {
			return false, nil
		}
		return ok, nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %s (last query error: %v)", ErrTimeout, desc, lastErr)
		}
		return nil, fmt.Errorf("%w: %s", err, desc)
	}
	return matched, nil
}

// check evaluates a condition once against the current DOM.
func (e *Engine) check(cond Condition) (bool, *rod.Element, error) {
	switch cond.Kind {
	case KindVisible:
		has, el, err := e.page.HasX(cond.Selector)
		if err != nil || !has {
			return false, nil, err
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			return false, nil, err
		}
		return true, el, nil

	case KindHidden:
		has, el, err := e.page.HasX(cond.Selector)
		if err != nil {
			return false, nil, err
		}
		if !has {
			return true, nil, nil
		}
		visible, err := el.Visible()
		if err != nil {
			// Node detached between the two calls counts as gone.
			return true, nil, nil
		}
		return !visible, nil, nil

	case KindTextChanged:
		has, el, err := e.page.HasX(cond.Selector)
		if err != nil || !has {
			return false, nil, err
		}
		text, err := el.Text()
		if err != nil {
			return false, nil, err
		}
		return text != cond.Ref, el, nil

	case KindURLIs:
		info, err := e.page.Info()
		if err != nil {
			return false, nil, err
		}
		return info.URL == cond.Ref, nil, nil

	default:
		return false, nil, fmt.Errorf("unknown condition kind: %d", cond.Kind)
	}
}

// Element waits for the locator to be visible and returns its handle.
// A timeout here is a hard failure: the calling action cannot proceed
// without its target, so the run is halted through the ledger.
func (e *Engine) Element(selector, desc string) (*rod.Element, error) {
	e.log.Debug("waiting for element", zap.String("target", desc))
	el, err := e.Resolve(Visible(selector), desc)
	if err != nil {
		return nil, e.ledger.Halt("timeout: element not found - " + desc)
	}
	return el, nil
}

// VisibleOrNil waits a shorter window for the locator and returns nil when
// it never shows up. The absence is recorded as a soft failure and the
// caller must null-check; some effects are advisory.
func (e *Engine) VisibleOrNil(selector, desc string) *rod.Element {
	cond := Visible(selector)
	cond.Timeout = OptionalTimeout
	el, err := e.Resolve(cond, desc)
	if err != nil {
		e.ledger.Fail(fmt.Sprintf("element not visible after %s: %s", cond.Timeout, desc))
		return nil
	}
	e.log.Info("element visible", zap.String("target", desc))
	return el
}

// WaitGone waits for the locator to disappear. A timeout degrades
// gracefully: it is recorded as a soft failure and the workflow continues.
func (e *Engine) WaitGone(selector, desc string) {
	e.log.Debug("waiting for element to disappear", zap.String("target", desc))
	if _, err := e.Resolve(Hidden(selector), desc); err != nil {
		e.ledger.Fail(fmt.Sprintf("element did not disappear within %s: %s", GoneTimeout, desc))
		return
	}
	e.log.Info("element disappeared", zap.String("target", desc))
}

// WaitURL polls until the page address equals expected, recording the
// outcome either way. A mismatch is a soft failure.
func (e *Engine) WaitURL(expected string) {
	e.log.Info("waiting for URL", zap.String("expected", expected))
	if _, err := e.Resolve(URLIs(expected), "url "+expected); err != nil {
		e.ledger.Fail("URL did not match expected value: " + expected)
		return
	}
	e.ledger.Pass("URL matched expected: " + expected)
}

// WaitTextChange polls until the matched node's text differs from prev.
// The caller decides how a timeout is treated.
func (e *Engine) WaitTextChange(selector, prev, desc string) error {
	_, err := e.Resolve(TextChanged(selector, prev), desc)
	return err
}

// Elements returns every node currently matching the locator, without
// waiting. Zero matches yield an empty slice and a nil error; a non-nil
// error means the query mechanism itself failed, which callers can tell
// apart from "nothing there".
func (e *Engine) Elements(selector string) ([]*rod.Element, error) {
	els, err := e.page.ElementsX(selector)
	if err != nil {
		return nil, fmt.Errorf("locating elements %q: %w", selector, err)
	}
	if len(els) == 0 {
		e.log.Debug("no elements found", zap.String("selector", selector))
	} else {
		e.log.Debug("elements found", zap.String("selector", selector), zap.Int("count", len(els)))
	}
	out := make([]*rod.Element, 0, len(els))
	out = append(out, els...)
	return out, nil
}
