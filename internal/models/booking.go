package models

import (
	"fmt"
	"strings"
	"time"
)

// WizardStep identifies a stage of the booking flow
type WizardStep int

// Booking wizard stages, in order
const (
	StepPassengerInfo WizardStep = iota
	StepSeatSelection
	StepPayment
	StepConfirmation
)

// String returns the stage name
func (s WizardStep) String() string {
	switch s {
	case StepPassengerInfo:
		return "passenger_info"
	case StepSeatSelection:
		return "seat_selection"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step_%d", int(s))
	}
}

// PassengerInfo holds the traveller details collected at the first stage.
// Fields are free text; the wizard does not validate their contents.
type PassengerInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// BillingAddress holds the card billing address
type BillingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// PaymentInfo holds the card details collected at the payment stage.
// Nothing is charged; the confirmation is cosmetic.
type PaymentInfo struct {
	CardNumber     string         `json:"cardNumber"`
	Expiry         string         `json:"expiry"`
	CVV            string         `json:"cvv"`
	CardholderName string         `json:"cardholderName"`
	Billing        BillingAddress `json:"billingAddress"`
}

// BookingSession is one booking flow for a selected flight. It owns the
// passenger, payment and seat state for the lifetime of the flow.
type BookingSession struct {
	SessionID       string        `json:"sessionId"`
	Flight          *Flight       `json:"flight"`
	CurrentStep     WizardStep    `json:"currentStep"`
	BookingComplete bool          `json:"bookingComplete"`
	Passenger       PassengerInfo `json:"passenger"`
	Payment         PaymentInfo   `json:"payment"`
	SelectedSeat    string        `json:"selectedSeat,omitempty"`
	ConfirmationRef string        `json:"confirmationRef,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// NewBookingSession starts a wizard at the passenger info stage for the given flight
func NewBookingSession(sessionID string, flight *Flight) *BookingSession {
	return &BookingSession{
		SessionID:   sessionID,
		Flight:      flight,
		CurrentStep: StepPassengerInfo,
		CreatedAt:   time.Now(),
	}
}

// Advance moves the wizard forward one stage. It is a no-op at the last stage
// and once the booking is complete.
func (b *BookingSession) Advance() {
	if b.BookingComplete {
		return
	}
	if b.CurrentStep < StepConfirmation {
		b.CurrentStep++
	}
}

// Retreat moves the wizard back one stage. It is a no-op at the first stage
// and once the booking is complete.
func (b *BookingSession) Retreat() {
	if b.BookingComplete {
		return
	}
	if b.CurrentStep > StepPassengerInfo {
		b.CurrentStep--
	}
}

// Complete finalizes the booking. It is only allowed from the payment stage;
// it marks the booking complete, forces the confirmation stage and assigns
// the confirmation reference. Returns false if the call was not allowed.
func (b *BookingSession) Complete() bool {
	if b.BookingComplete || b.CurrentStep != StepPayment {
		return false
	}
	b.BookingComplete = true
	b.CurrentStep = StepConfirmation
	b.ConfirmationRef = confirmationReference(b.SessionID)
	return true
}

// confirmationReference builds the cosmetic booking reference shown on the
// confirmation stage. No inventory or payment system stands behind it.
func confirmationReference(sessionID string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(sessionID, "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return "SKY-" + suffix
}
