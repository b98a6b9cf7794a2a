package pages

import (
	"time"

	"github.com/v0xg/railcheck/internal/engine"
)

const (
	countryDialogXPath   = `//div[contains(@class, "GlobalPopup")]`
	confirmedDialogXPath = `//div[contains(@class, "Modal") and contains(., "Confirmed Options")]`
)

// CountryDialog is the country/language switcher popup.
type CountryDialog struct {
	eng *engine.Engine
}

// OpenCountryDialog binds to the popup after the switcher was clicked.
func OpenCountryDialog(eng *engine.Engine) *CountryDialog {
	eng.VisibleOrNil(countryDialogXPath, "country language dialog")
	return &CountryDialog{eng: eng}
}

// ChooseIndiaAndApply selects India in the country dropdown and submits.
// The site then reopens itself in a new window; the caller handles the
// window switch.
func (c *CountryDialog) ChooseIndiaAndApply() error {
	dropdown := countryDialogXPath + `//div[@data-testid="country-dropdown"]`
	if err := c.eng.Click(dropdown, "country dropdown"); err != nil {
		return err
	}
	if err := c.eng.Click(dropdown+`//p[@data-testid="IN-country"]`, "dropdown value for India"); err != nil {
		return err
	}
	return c.eng.Click(countryDialogXPath+`//button[@data-testid="country-lang-submit"]`, "country submit button")
}

// ConfirmedOptionsDialog sometimes interposes after selecting a seat option,
// offering confirmed alternatives. It may or may not appear.
type ConfirmedOptionsDialog struct {
	eng *engine.Engine
}

// NewConfirmedOptionsDialog binds to the possibly-present dialog.
func NewConfirmedOptionsDialog(eng *engine.Engine) *ConfirmedOptionsDialog {
	// The dialog animates in with no load signal to wait on.
	eng.Pause(time.Second, "wait for confirmed options dialog to settle")
	return &ConfirmedOptionsDialog{eng: eng}
}

// Present reports whether the dialog showed up.
func (d *ConfirmedOptionsDialog) Present() bool {
	return d.eng.IsVisible(confirmedDialogXPath, "confirmed options dialog")
}

// BookNow accepts the dialog's first offer.
func (d *ConfirmedOptionsDialog) BookNow() error {
	content := confirmedDialogXPath + `//div[contains(@class, "Modal_modalContent")]`
	return d.eng.Click(content+`//span[contains(., "Book Now")]`, "book now button")
}
