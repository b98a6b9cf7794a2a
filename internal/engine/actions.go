package engine

import (
	"time"

	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Click resolves the target and clicks it.
func (e *Engine) Click(selector, desc string) error {
	e.log.Info("click", zap.String("target", desc))
	el, err := e.Element(selector, desc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return e.ledger.Halt("click failed on " + desc + ": " + err.Error())
	}
	return nil
}

// Type resolves the target, clears its current content, and types text.
func (e *Engine) Type(selector, text, desc string) error {
	e.log.Info("type", zap.String("target", desc), zap.String("text", text))
	el, err := e.Element(selector, desc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return e.ledger.Halt("clearing " + desc + ": " + err.Error())
	}
	if err := el.Input(text); err != nil {
		return e.ledger.Halt("typing into " + desc + ": " + err.Error())
	}
	return nil
}

// Text resolves the target and returns its text content.
func (e *Engine) Text(selector, desc string) (string, error) {
	e.log.Info("read text", zap.String("target", desc))
	el, err := e.Element(selector, desc)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", e.ledger.Halt("reading text of " + desc + ": " + err.Error())
	}
	return text, nil
}

// Value resolves the target and returns its value property. Used for input
// fields whose content is not text-node content.
func (e *Engine) Value(selector, desc string) (string, error) {
	el, err := e.Element(selector, desc)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", e.ledger.Halt("reading value of " + desc + ": " + err.Error())
	}
	return v.String(), nil
}

// SelectFromList activates a dropdown widget and clicks the list entry
// containing value. Works for widgets whose entries render as li nodes under
// the widget itself.
func (e *Engine) SelectFromList(widgetSelector, value, desc string) error {
	if err := e.Click(widgetSelector, desc+" to activate dropdown"); err != nil {
		return err
	}
	return e.Click(widgetSelector+`//li[contains(., "`+value+`")]`, desc+" entry for "+value)
}

// IsVisible reports whether the locator shows up within the short optional
// window. Absence is not recorded; this is a probe, not an assertion.
func (e *Engine) IsVisible(selector, desc string) bool {
	e.log.Debug("checking visibility", zap.String("target", desc))
	cond := Visible(selector)
	cond.Timeout = GoneTimeout
	if _, err := e.Resolve(cond, desc); err != nil {
		e.log.Debug("element not visible", zap.String("target", desc))
		return false
	}
	return true
}

// Title returns the current page title.
func (e *Engine) Title() (string, error) {
	info, err := e.page.Info()
	if err != nil {
		return "", e.ledger.Halt("reading page title: " + err.Error())
	}
	e.log.Info("page title retrieved", zap.String("title", info.Title))
	return info.Title, nil
}

// Pause sleeps for a fixed duration. Only used where the site gives no DOM
// signal to wait on, e.g. debounced autosuggest lists.
func (e *Engine) Pause(d time.Duration, reason string) {
	e.log.Info("pausing", zap.Duration("for", d), zap.String("reason", reason))
	time.Sleep(d)
}
