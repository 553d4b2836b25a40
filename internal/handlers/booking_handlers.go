package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/models"
	"sky_flights_booking/internal/services"
)

// BookingHandlers handles booking wizard HTTP requests
type BookingHandlers struct {
	bookingService *services.BookingService
	log            *zap.Logger
}

// NewBookingHandlers creates new booking handlers
func NewBookingHandlers(bookingService *services.BookingService) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		log:            logger.Get(),
	}
}

// StartBooking creates a wizard session for a selected flight
func (bh *BookingHandlers) StartBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Flight *models.Flight `json:"flight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := bh.bookingService.StartSession(r.Context(), req.Flight)
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GetBooking returns the wizard session state
func (bh *BookingHandlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	session, err := bh.bookingService.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Advance moves the wizard forward one stage
func (bh *BookingHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := bh.bookingService.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Retreat moves the wizard back one stage
func (bh *BookingHandlers) Retreat(w http.ResponseWriter, r *http.Request) {
	session, err := bh.bookingService.Retreat(r.Context(), r.PathValue("id"))
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Complete finalizes the booking from the payment stage
func (bh *BookingHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	session, err := bh.bookingService.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetPassenger stores the passenger details for the session
func (bh *BookingHandlers) SetPassenger(w http.ResponseWriter, r *http.Request) {
	var info models.PassengerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := bh.bookingService.SetPassenger(r.Context(), r.PathValue("id"), info)
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetPayment stores the payment details for the session
func (bh *BookingHandlers) SetPayment(w http.ResponseWriter, r *http.Request) {
	var info models.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := bh.bookingService.SetPayment(r.Context(), r.PathValue("id"), info)
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SeatMap returns the derived seat grid for the session
func (bh *BookingHandlers) SeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := bh.bookingService.SeatMap(r.Context(), r.PathValue("id"))
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatMap)
}

// SelectSeat sets the session's seat selection
func (bh *BookingHandlers) SelectSeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeatID string `json:"seatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SeatID == "" {
		http.Error(w, "Missing required parameter: seatId", http.StatusBadRequest)
		return
	}

	session, err := bh.bookingService.SelectSeat(r.Context(), r.PathValue("id"), req.SeatID)
	if err != nil {
		bh.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// writeError maps service errors to HTTP status codes
func (bh *BookingHandlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoFlightSelected):
		http.Error(w, "No flight selected", http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrSessionNotFound):
		http.Error(w, "Booking session not found", http.StatusNotFound)
	case errors.Is(err, services.ErrSeatUnavailable):
		http.Error(w, "Seat is not available", http.StatusConflict)
	case errors.Is(err, services.ErrCompleteNotAllowed):
		http.Error(w, "Booking can only be completed from the payment step", http.StatusConflict)
	default:
		bh.log.Error("booking request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
