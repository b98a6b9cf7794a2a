package pages

import (
	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/engine"
)

const (
	travellersXPath = `//div[@class="railTravellersWrapper"]`
	payNowXPath     = travellersXPath + `//div[@class="payNowWrapper"]`
	addDialogXPath  = `//div[@id="mmt-rails-add-traveller"]`
)

// SelectTravellers is the passenger selection page reached after picking a
// seat option.
type SelectTravellers struct {
	eng *engine.Engine
	log *zap.Logger
}

// NewSelectTravellers binds to the travellers page.
func NewSelectTravellers(eng *engine.Engine, log *zap.Logger) *SelectTravellers {
	if log == nil {
		log = zap.NewNop()
	}
	eng.VisibleOrNil(travellersXPath, "select travellers widget")
	return &SelectTravellers{eng: eng, log: log}
}

// AddTraveller opens the add-traveller dialog and fills in one passenger.
func (s *SelectTravellers) AddTraveller(name, age, gender string) error {
	s.log.Info("adding traveller",
		zap.String("name", name), zap.String("age", age), zap.String("gender", gender))

	if err := s.eng.Click(travellersXPath+`//span[text()="Add Traveller"]`, "add traveller"); err != nil {
		return err
	}
	s.eng.VisibleOrNil(addDialogXPath, "add traveller information dialog")

	if err := s.eng.Type(addDialogXPath+`//input[@id="name"]`, name, "traveller name input"); err != nil {
		return err
	}
	if err := s.eng.Type(addDialogXPath+`//input[@id="age"]`, age, "traveller age input"); err != nil {
		return err
	}

	genderWidget := addDialogXPath + `//label[@for="gender"]//following-sibling::div`
	if err := s.eng.SelectFromList(genderWidget, gender, "gender widget"); err != nil {
		return err
	}
	return s.eng.Click(addDialogXPath+`//button[contains(., "Add")]`, "add button")
}

// PayAndBookNow attempts payment. Without an IRCTC login the site answers
// with an account-details error; its message is read back and returned so
// the run can attach it to the report.
func (s *SelectTravellers) PayAndBookNow() (string, error) {
	if err := s.eng.Click(payNowXPath+`//span[contains(., "Pay & Book Now")]`, "pay and book now"); err != nil {
		return "", err
	}
	msg, err := s.eng.Text(
		travellersXPath+`//h3[text()="IRCTC Account Details"]//following-sibling::div//p[contains(@class, "errorMsg")]`,
		"IRCTC account details error message")
	if err != nil {
		return "", err
	}
	s.log.Info("pay and book responded", zap.String("message", msg))
	return msg, nil
}

// PaymentDetails reads the payment summary widget as displayed.
func (s *SelectTravellers) PaymentDetails() (string, error) {
	return s.eng.Text(payNowXPath+`//div[@class="paymentDetailsWrapper"]`, "payment details wrapper")
}
