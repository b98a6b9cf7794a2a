// Package pages holds the page objects of the booking workflow: locators
// plus calls into the wait engine. The algorithmic work lives in the
// calendar and listing packages; nothing here caches element handles.
package pages

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/browser"
	"github.com/v0xg/railcheck/internal/engine"
)

const (
	navXPath          = `//nav`
	closeModalXPath   = `//span[@data-cy="closeModal"]`
	langSwitcherXPath = `//span[@data-testid="country-lang-switcher"]`
)

// Dashboard is the landing page. Opening it dismisses the login dialog and
// makes sure the site is on the India/INR locale, where the trains flow
// lives.
type Dashboard struct {
	eng *engine.Engine
	br  *browser.Browser
	log *zap.Logger
}

// OpenDashboard readies the landing page for navigation.
func OpenDashboard(eng *engine.Engine, br *browser.Browser, log *zap.Logger) (*Dashboard, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dashboard{eng: eng, br: br, log: log}

	if err := d.eng.Click(closeModalXPath, "close button of login dialog"); err != nil {
		return nil, err
	}
	d.eng.WaitGone(closeModalXPath, "login dialog")
	if err := d.ensureIndiaLocale(); err != nil {
		return nil, err
	}
	d.eng.VisibleOrNil(navXPath, "dashboard navigation bar")
	return d, nil
}

// ensureIndiaLocale switches the site to the India/INR edition when the
// current locale is anything else. The switch reopens the site in a new
// window; the engine is re-attached there.
func (d *Dashboard) ensureIndiaLocale() error {
	text, err := d.eng.Text(langSwitcherXPath, "country-lang-switcher")
	if err != nil {
		return err
	}
	if strings.Contains(text, "INR") {
		return nil
	}

	d.log.Info("switching site locale to India")
	if err := d.eng.Click(langSwitcherXPath, "country-lang-switcher"); err != nil {
		return err
	}
	dialog := OpenCountryDialog(d.eng)
	if err := dialog.ChooseIndiaAndApply(); err != nil {
		return err
	}

	current := d.eng.Page()
	newPage, err := d.br.WaitNewPage(current, 10*time.Second)
	if err != nil {
		return d.eng.Ledger().Halt("locale switch did not open the India site: " + err.Error())
	}
	d.eng.Attach(newPage)

	// The India edition greets with its own login dialog.
	if err := d.eng.Click(closeModalXPath, "close button of login dialog"); err != nil {
		return err
	}
	d.eng.WaitGone(closeModalXPath, "login dialog")
	return nil
}

// Title returns the current page title.
func (d *Dashboard) Title() (string, error) {
	return d.eng.Title()
}

// NavigateTo clicks a top navigation menu entry by name.
func (d *Dashboard) NavigateTo(menuItem string) error {
	return d.eng.Click(
		navXPath+`//ul//li[@data-cy="menu_`+menuItem+`"]`,
		"navigation menu button for "+menuItem)
}

// GoToTrains opens the trains search page.
func (d *Dashboard) GoToTrains() (*Trains, error) {
	if err := d.NavigateTo("Trains"); err != nil {
		return nil, err
	}
	return NewTrains(d.eng, d.log), nil
}
