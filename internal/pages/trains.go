package pages

import (
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/calendar"
	"github.com/v0xg/railcheck/internal/engine"
	"github.com/v0xg/railcheck/internal/listing"
)

const railwaysURL = "https://www.makemytrip.com/railways/"

// Trains is the train search page: the search widgets, the result filters,
// and the listing selection.
type Trains struct {
	eng *engine.Engine
	log *zap.Logger
}

// NewTrains binds to the trains page and verifies the address.
func NewTrains(eng *engine.Engine, log *zap.Logger) *Trains {
	if log == nil {
		log = zap.NewNop()
	}
	eng.WaitURL(railwaysURL)
	return &Trains{eng: eng, log: log}
}

// BookTrainTickets selects the book-tickets mode of the search widget.
func (t *Trains) BookTrainTickets() error {
	return t.eng.Click(`//span[contains(., "Book Train Tickets")]`, "book train tickets checkbox")
}

// FillFromCity picks the source city through the autosuggest widget.
func (t *Trains) FillFromCity(location string) error {
	t.log.Info("entering source city", zap.String("city", location))
	if err := t.eng.Click(`//label[@for="fromCity"]`, "fromCity label to activate dropdown"); err != nil {
		return err
	}
	return t.selectFromAutosuggest(location)
}

// FillToCity picks the destination city through the autosuggest widget.
func (t *Trains) FillToCity(location string) error {
	t.log.Info("entering destination city", zap.String("city", location))
	if err := t.eng.Click(`//label[@for="toCity"]`, "toCity label to activate dropdown"); err != nil {
		return err
	}
	return t.selectFromAutosuggest(location)
}

// selectFromAutosuggest types into the suggestion widget and picks the
// entry containing the location. The list is debounced with no DOM signal
// to wait on, hence the fixed pause.
func (t *Trains) selectFromAutosuggest(location string) error {
	widget := `//div[contains(@class, "autoSuggestPlugin")]`
	if err := t.eng.Type(widget+`//input`, location, "location autosuggest input"); err != nil {
		return err
	}
	t.eng.Pause(time.Second, "wait for autosuggest list to load")
	return t.eng.Click(widget+`//li[contains(., "`+location+`")]`, "autosuggest entry for "+location)
}

// FillTravelClass picks the journey class from the travel-for dropdown.
func (t *Trains) FillTravelClass(travelClass string) error {
	t.log.Info("entering travel class", zap.String("class", travelClass))
	if err := t.eng.Click(`//label[@for="travelClass"]`, "travelClass label to activate dropdown"); err != nil {
		return err
	}
	return t.eng.Click(
		`//ul[@class="travelForPopup"]//li[contains(., "`+travelClass+`")]`,
		"travel class entry for "+travelClass)
}

// FillDate opens the travel-date calendar and drives it to the target.
func (t *Trains) FillDate(target calendar.Target) error {
	if err := t.eng.Click(`//label[@for="travelDate"]`, "travel date label to activate calendar"); err != nil {
		return err
	}
	nav := calendar.NewNavigator(calendar.NewPickerWidget(t.eng), t.eng.Ledger(), t.log)
	return nav.SelectDate(target)
}

// Search submits the search form.
func (t *Trains) Search() error {
	return t.eng.Click(`//a[@data-cy="submit" and contains(., "Search")]`, "search button")
}

// ApplyDepartureFilter applies a departure time-window filter option for
// the given origin, e.g. "6pm - 12am". The listing re-renders in place.
func (t *Trains) ApplyDepartureFilter(from, window string) error {
	t.log.Info("applying departure filter", zap.String("from", from), zap.String("window", window))
	err := t.eng.Click(
		`//div[contains(@class, "FilterCard_filterCardSection") and contains(., "Departure from `+from+`")]`+
			`//li[@data-testid="filter-option-`+window+`"]`,
		"departure filter option "+window)
	if err != nil {
		return err
	}
	t.eng.Pause(2*time.Second, "wait for listing to re-filter")
	return nil
}

// ApplyTravelClassFilter reads the class back from the search widget's
// travel-for input and applies the matching journey class filter.
func (t *Trains) ApplyTravelClassFilter() error {
	value, err := t.eng.Value(`//input[@id="travelFor"]`, "travel-for class input")
	if err != nil {
		return err
	}
	parts := strings.SplitN(value, ",", 2)
	class := ""
	if len(parts) > 1 {
		class = strings.TrimSpace(parts[1])
	}
	t.log.Info("applying journey class filter", zap.String("class", class))

	err = t.eng.Click(
		`//div[contains(@class, "FilterCard") and contains(., "Journey Class Filters")]//li[contains(., "`+class+`")]`,
		"journey class filter for "+class)
	if err != nil {
		return err
	}
	t.eng.Pause(2*time.Second, "wait for listing to re-filter")
	return nil
}

// SelectFirstAvailable scans the filtered listing and clicks the first
// bookable seat option. No bookable result is a hard failure: nothing can
// be booked under the current filters.
func (t *Trains) SelectFirstAvailable() (*SelectTravellers, error) {
	sel := listing.NewSelector(t.eng, t.eng.Ledger(), t.log)
	target, _, err := sel.Scan()
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, t.eng.Ledger().Halt(
			"no seats available on the chosen date under current filters; select a different date")
	}
	if err := target.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, t.eng.Ledger().Halt("clicking first available seat option: " + err.Error())
	}

	dialog := NewConfirmedOptionsDialog(t.eng)
	if dialog.Present() {
		if err := dialog.BookNow(); err != nil {
			return nil, err
		}
	}
	return NewSelectTravellers(t.eng, t.log), nil
}

// SearchAndSelect runs the whole search: fill the widgets, search, filter,
// and select the first bookable train.
func (t *Trains) SearchAndSelect(from, to, travelClass, departureWindow string, date calendar.Target) (*SelectTravellers, error) {
	t.log.Info("searching train",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("class", travelClass),
		zap.String("date", date.DayLabel()))

	if err := t.FillFromCity(from); err != nil {
		return nil, err
	}
	if err := t.FillTravelClass(travelClass); err != nil {
		return nil, err
	}
	if err := t.FillToCity(to); err != nil {
		return nil, err
	}
	if err := t.FillDate(date); err != nil {
		return nil, err
	}
	if err := t.Search(); err != nil {
		return nil, err
	}
	if err := t.ApplyDepartureFilter(from, departureWindow); err != nil {
		return nil, err
	}
	if err := t.ApplyTravelClassFilter(); err != nil {
		return nil, err
	}
	return t.SelectFirstAvailable()
}
