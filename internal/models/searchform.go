package models

import (
	"time"
)

// TripType represents the kind of journey being searched
type TripType string

// Trip types
const (
	TripRoundtrip TripType = "roundtrip"
	TripOneway    TripType = "oneway"
	TripMulticity TripType = "multicity"
)

// Option is a tagged value/label pair shared by the airport and class pickers
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ClassOptions returns the selectable cabin classes. The first entry is the default.
func ClassOptions() []Option {
	return []Option{
		{Value: "economy", Label: "Economy"},
		{Value: "premium economy", Label: "Premium Economy"},
		{Value: "business", Label: "Business"},
		{Value: "first", Label: "First"},
	}
}

// Passenger count fields
const (
	PassengerAdults        = "adults"
	PassengerChildren      = "children"
	PassengerInfantsInSeat = "infantsInSeat"
	PassengerInfantsOnLap  = "infantsOnLap"
)

// Passenger count bounds: at least one adult, at most nine per field
const (
	MinAdults             = 1
	MaxPassengersPerField = 9
)

// PassengerCounts holds the traveller counts of a search
type PassengerCounts struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	InfantsInSeat int `json:"infantsInSeat"`
	InfantsOnLap  int `json:"infantsOnLap"`
}

// Total returns the combined passenger count
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.InfantsInSeat + p.InfantsOnLap
}

// DateLayout is the wire format for departure and return dates
const DateLayout = "2006-01-02"

// SearchForm holds the flight search criteria. It is persisted after every
// mutation and restored on the next load.
type SearchForm struct {
	TripType           TripType        `json:"tripType"`
	OriginAirport      *Option         `json:"originAirport"`
	DestinationAirport *Option         `json:"destinationAirport"`
	DepartureDate      string          `json:"departureDate"`
	ReturnDate         string          `json:"returnDate"`
	Passengers         PassengerCounts `json:"passengers"`
	SelectedClass      Option          `json:"selectedClass"`
	Locked             bool            `json:"locked"`
}

// DefaultSearchForm returns the form used when nothing has been persisted yet:
// roundtrip, no airports, departing today, one adult, Economy.
func DefaultSearchForm() SearchForm {
	return SearchForm{
		TripType:      TripRoundtrip,
		DepartureDate: time.Now().Format(DateLayout),
		Passengers:    PassengerCounts{Adults: 1},
		SelectedClass: ClassOptions()[0],
	}
}

// IncreasePassenger raises the given count field, capped at MaxPassengersPerField.
// Unknown fields are ignored.
func (f *SearchForm) IncreasePassenger(field string) {
	count := f.passengerField(field)
	if count == nil {
		return
	}
	if *count < MaxPassengersPerField {
		*count++
	}
}

// DecreasePassenger lowers the given count field. Adults never drop below one,
// all other counts never drop below zero.
func (f *SearchForm) DecreasePassenger(field string) {
	count := f.passengerField(field)
	if count == nil {
		return
	}
	floor := 0
	if field == PassengerAdults {
		floor = MinAdults
	}
	if *count > floor {
		*count--
	}
}

func (f *SearchForm) passengerField(field string) *int {
	switch field {
	case PassengerAdults:
		return &f.Passengers.Adults
	case PassengerChildren:
		return &f.Passengers.Children
	case PassengerInfantsInSeat:
		return &f.Passengers.InfantsInSeat
	case PassengerInfantsOnLap:
		return &f.Passengers.InfantsOnLap
	default:
		return nil
	}
}

// HasAirports reports whether both origin and destination have been selected.
// A search is rejected locally until they are.
func (f *SearchForm) HasAirports() bool {
	return f.OriginAirport != nil && f.DestinationAirport != nil
}
