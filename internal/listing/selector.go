package listing

import (
	"fmt"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/engine"
	"github.com/v0xg/railcheck/internal/verify"
)

// Result listing locators. Per-card fields are resolved relative to their
// card, never globally, so one card's values cannot bleed into another's.
const (
	cardXPath         = `//div[contains(@class, "ListingCard_listingTopInfo")]`
	nameXPath         = `.//p[@data-testid="train-name"]`
	scheduleXPath     = `.//div[contains(@class, "ListingCard_dateTimeInfo")]`
	availOptionXPath  = `.//div[@data-testid="card-wrapper" and contains(., "Available")]`
	classInfoXPath    = `.//p[@data-testid="class-info"]`
	availabilityXPath = `.//p[@data-testid="availability-text"]`
	priceXPath        = `.//p[contains(@class, "Cards_totalText")]`
)

// Selector extracts listing entries from the live results page.
type Selector struct {
	eng    *engine.Engine
	ledger *verify.Ledger
	log    *zap.Logger
}

// NewSelector creates a selector over the current results page.
func NewSelector(eng *engine.Engine, ledger *verify.Ledger, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{eng: eng, ledger: ledger, log: log}
}

// Scan waits for the listing to render, extracts every card in document
// order, validates price invariants on all options, and returns the handle
// of the first available option of the first eligible card. The handle is
// nil when no card has an available option; the caller decides how hard
// that failure is.
func (s *Selector) Scan() (*rod.Element, []Entry, error) {
	if _, err := s.eng.Element(cardXPath, "train listing card"); err != nil {
		return nil, nil, err
	}
	cards, err := s.eng.Elements(cardXPath)
	if err != nil {
		return nil, nil, s.ledger.Halt("querying listing cards: " + err.Error())
	}

	var target *rod.Element
	entries := make([]Entry, 0, len(cards))

	for i, card := range cards {
		entry, options, err := s.extractCard(card)
		if err != nil {
			return nil, nil, s.ledger.Halt(fmt.Sprintf("extracting listing card %d: %v", i+1, err))
		}
		entries = append(entries, entry)

		// First eligible card wins; later cards are still scanned for
		// validation but never override the selection.
		if target == nil && len(options) > 0 {
			target = options[0]
		}

		s.log.Info("train found",
			zap.String("name", entry.Name),
			zap.Int("available_options", len(entry.Options)))
		if journey, ok := ParseSchedule(entry.Schedule); ok {
			s.log.Info("schedule", zap.String("train", entry.Name), zap.String("journey", journey.String()))
		}
	}

	Validate(s.ledger, entries)
	return target, entries, nil
}

// extractCard pulls one card's record plus the handles of its available
// option nodes, all scoped to the card.
func (s *Selector) extractCard(card *rod.Element) (Entry, []*rod.Element, error) {
	name, err := elementText(card, nameXPath)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("train name: %w", err)
	}
	schedule, err := elementText(card, scheduleXPath)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("schedule info: %w", err)
	}

	optionEls, err := card.ElementsX(availOptionXPath)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("seat options: %w", err)
	}

	entry := Entry{Name: name, Schedule: schedule}
	handles := make([]*rod.Element, 0, len(optionEls))
	for _, opt := range optionEls {
		class, err := elementText(opt, classInfoXPath)
		if err != nil {
			return Entry{}, nil, fmt.Errorf("class info: %w", err)
		}
		availability, err := elementText(opt, availabilityXPath)
		if err != nil {
			return Entry{}, nil, fmt.Errorf("availability text: %w", err)
		}
		priceText, err := elementText(opt, priceXPath)
		if err != nil {
			return Entry{}, nil, fmt.Errorf("price text: %w", err)
		}
		entry.Options = append(entry.Options, SeatOption{
			Class:        class,
			Availability: availability,
			PriceText:    priceText,
		})
		handles = append(handles, opt)
	}
	return entry, handles, nil
}

func elementText(scope *rod.Element, xpath string) (string, error) {
	el, err := scope.ElementX(xpath)
	if err != nil {
		return "", err
	}
	return el.Text()
}
