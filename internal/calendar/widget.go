package calendar

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/railcheck/internal/engine"
)

// DayPicker locators. The widget is the react-day-picker variant the site
// renders inside the travel-date popover.
const (
	captionXPath = `//div[@class="DayPicker-Caption"]/div`
	nextXPath    = `//span[@aria-label="Next Month"]`
	dayXPath     = `//div[contains(@class, "DayPicker-Day") and @aria-disabled="false"]`
)

// PickerWidget implements Widget over a live page through the wait engine.
// Every call re-resolves its nodes; the picker re-renders on each page turn.
type PickerWidget struct {
	eng *engine.Engine
}

// NewPickerWidget binds to the currently open date picker.
func NewPickerWidget(eng *engine.Engine) *PickerWidget {
	return &PickerWidget{eng: eng}
}

// Caption reads the displayed month/year heading.
func (w *PickerWidget) Caption() (string, error) {
	el, err := w.eng.Element(captionXPath, "calendar month caption")
	if err != nil {
		return "", err
	}
	return el.Text()
}

// Advance clicks the next-month control and waits for the caption to change
// from its pre-click value, which detects the async re-render without a
// fixed delay. Returns false when the control is disabled.
func (w *PickerWidget) Advance() (bool, error) {
	prev, err := w.Caption()
	if err != nil {
		return false, err
	}

	btn, err := w.eng.Element(nextXPath, "next month control")
	if err != nil {
		return false, err
	}
	disabled, err := controlDisabled(btn)
	if err != nil {
		return false, err
	}
	if disabled {
		return false, nil
	}

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, err
	}
	if err := w.eng.WaitTextChange(captionXPath, prev, "calendar caption after paging"); err != nil {
		return false, err
	}
	return true, nil
}

// Pick scans the rendered non-disabled day nodes in document order and
// clicks the first whose aria-label equals label.
func (w *PickerWidget) Pick(label string) (bool, error) {
	days, err := w.eng.Elements(dayXPath)
	if err != nil {
		return false, err
	}
	for _, day := range days {
		attr, err := day.Attribute("aria-label")
		if err != nil {
			return false, err
		}
		if attr != nil && *attr == label {
			if err := day.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// controlDisabled reports whether a widget control is disabled, via either
// the disabled property or the aria-disabled attribute.
func controlDisabled(el *rod.Element) (bool, error) {
	prop, err := el.Property("disabled")
	if err != nil {
		return false, err
	}
	if prop.Bool() {
		return true, nil
	}
	attr, err := el.Attribute("aria-disabled")
	if err != nil {
		return false, err
	}
	return attr != nil && *attr == "true", nil
}
