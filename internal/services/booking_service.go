package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sky_flights_booking/internal/database"
	"sky_flights_booking/internal/flights"
	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/models"
)

// Booking wizard errors surfaced to the HTTP layer
var (
	ErrNoFlightSelected   = errors.New("no flight selected")
	ErrSessionNotFound    = errors.New("booking session not found or expired")
	ErrSeatUnavailable    = errors.New("seat is not available")
	ErrCompleteNotAllowed = errors.New("booking can only be completed from the payment step")
)

// sessionTTL bounds how long an unfinished wizard session survives
const sessionTTL = 30 * time.Minute

// BookingService manages booking wizard sessions. Each session walks the
// four-stage flow for one selected flight; sessions live in the cache under
// a TTL and are rewritten after every mutation.
type BookingService struct {
	store  database.Store
	layout models.CabinLayout
	log    *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store database.Store, layout models.CabinLayout) *BookingService {
	return &BookingService{
		store:  store,
		layout: layout,
		log:    logger.Get(),
	}
}

// StartSession creates a wizard session for the selected flight. A session
// cannot exist without one.
func (bs *BookingService) StartSession(ctx context.Context, flight *models.Flight) (*models.BookingSession, error) {
	if flight == nil {
		return nil, ErrNoFlightSelected
	}

	session := models.NewBookingSession(uuid.New().String(), flight)
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}

	bs.log.Info("booking session started",
		zap.String("session_id", session.SessionID),
		zap.String("flight_id", flight.ID))
	return session, nil
}

// GetSession returns the wizard session with the given id
func (bs *BookingService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return bs.loadSession(ctx, sessionID)
}

// Advance moves the session forward one stage. Calls past the last stage or
// after completion are no-ops, per the wizard rules.
func (bs *BookingService) Advance(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Advance()
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Retreat moves the session back one stage. Calls at the first stage or
// after completion are no-ops.
func (bs *BookingService) Retreat(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Retreat()
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete finalizes the booking from the payment stage. The session becomes
// terminal: every later transition is a no-op.
func (bs *BookingService) Complete(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Complete() {
		return nil, ErrCompleteNotAllowed
	}
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}

	bs.log.Info("booking completed",
		zap.String("session_id", session.SessionID),
		zap.String("confirmation_ref", session.ConfirmationRef))
	return session, nil
}

// SetPassenger stores the passenger details. Contents are not validated;
// the wizard accepts whatever the form held.
func (bs *BookingService) SetPassenger(ctx context.Context, sessionID string, info models.PassengerInfo) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Passenger = info
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetPayment stores the payment details. Contents are not validated and
// nothing is charged.
func (bs *BookingService) SetPayment(ctx context.Context, sessionID string, info models.PaymentInfo) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Payment = info
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SeatMap derives the seat grid for the session's current selection
func (bs *BookingService) SeatMap(ctx context.Context, sessionID string) ([][]models.SeatMapEntry, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return flights.BuildSeatMap(bs.layout, session.SelectedSeat), nil
}

// SelectSeat sets the session's seat, replacing any prior selection. Only
// available seats may be selected.
func (bs *BookingService) SelectSeat(ctx context.Context, sessionID, seatID string) (*models.BookingSession, error) {
	session, err := bs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !flights.SeatAvailable(bs.layout, seatID) {
		return nil, ErrSeatUnavailable
	}

	session.SelectedSeat = seatID
	if err := bs.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (bs *BookingService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	var session models.BookingSession
	if err := bs.store.GetJSON(ctx, database.GenerateSessionKey(sessionID), &session); err != nil {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (bs *BookingService) saveSession(ctx context.Context, session *models.BookingSession) error {
	key := database.GenerateSessionKey(session.SessionID)
	if err := bs.store.SetJSON(ctx, key, session, sessionTTL); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}
