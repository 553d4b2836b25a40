package models

import (
	"fmt"
	"time"
)

// Carrier represents an airline marketing or operating a flight
type Carrier struct {
	ID      int    `json:"id"`
	LogoURL string `json:"logoUrl"`
	Name    string `json:"name"`
}

// Place represents an airport or city endpoint of a leg
type Place struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayCode   string `json:"displayCode"`
	City          string `json:"city,omitempty"`
	IsHighlighted bool   `json:"isHighlighted,omitempty"`
}

// SegmentPlace represents a segment endpoint, optionally nested under a parent place
type SegmentPlace struct {
	FlightPlaceID string        `json:"flightPlaceId"`
	DisplayCode   string        `json:"displayCode"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	Parent        *SegmentPlace `json:"parent,omitempty"`
}

// Segment represents a single non-stop flown hop within a leg
type Segment struct {
	ID                string       `json:"id"`
	Origin            SegmentPlace `json:"origin"`
	Destination       SegmentPlace `json:"destination"`
	Departure         string       `json:"departure"`
	Arrival           string       `json:"arrival"`
	DurationInMinutes int          `json:"durationInMinutes"`
	FlightNumber      string       `json:"flightNumber"`
	MarketingCarrier  Carrier      `json:"marketingCarrier"`
	OperatingCarrier  Carrier      `json:"operatingCarrier"`
}

// LegCarriers holds the carriers marketing a leg
type LegCarriers struct {
	Marketing []Carrier `json:"marketing"`
}

// Leg represents one directional itinerary portion composed of one or more segments
type Leg struct {
	ID                string      `json:"id"`
	Origin            Place       `json:"origin"`
	Destination       Place       `json:"destination"`
	DurationInMinutes int         `json:"durationInMinutes"`
	StopCount         int         `json:"stopCount"`
	Departure         string      `json:"departure"`
	Arrival           string      `json:"arrival"`
	Carriers          LegCarriers `json:"carriers"`
	Segments          []Segment   `json:"segments"`
}

// Price holds the raw numeric price and its display form
type Price struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

// Flight represents a searchable itinerary. Immutable once received from the search API.
type Flight struct {
	ID    string   `json:"id"`
	Price Price    `json:"price"`
	Class string   `json:"class"`
	Legs  []Leg    `json:"legs"`
	Tags  []string `json:"tags,omitempty"`
}

// TimeBucket identifies a departure-hour range used for filtering
type TimeBucket string

// Departure time buckets
const (
	BucketMorning   TimeBucket = "morning"   // [06:00, 12:00)
	BucketAfternoon TimeBucket = "afternoon" // [12:00, 18:00)
	BucketEvening   TimeBucket = "evening"   // [18:00, 24:00)
	BucketNight     TimeBucket = "night"     // [00:00, 06:00)
)

// SortOption identifies the flight sort key
type SortOption string

// Sort keys
const (
	SortByPrice     SortOption = "price"
	SortByDuration  SortOption = "duration"
	SortByDeparture SortOption = "departure"
	SortByArrival   SortOption = "arrival"
)

// SortOrder identifies the sort direction
type SortOrder string

// Sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FlightFilters holds the active result filters. Empty sets mean "no restriction".
type FlightFilters struct {
	PriceRange    [2]float64   `json:"priceRange"`
	Stops         []int        `json:"stops"`
	Airlines      []string     `json:"airlines"`
	DepartureTime []TimeBucket `json:"departureTime"`
}

// flightTimeLayouts covers the timestamp forms the search API emits: full RFC3339
// and local timestamps without a zone offset.
var flightTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseFlightTime parses a departure or arrival timestamp from the search API.
func ParseFlightTime(value string) (time.Time, error) {
	for _, layout := range flightTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized flight timestamp: %q", value)
}

// OutboundLeg returns the first leg of the itinerary, or nil if there are none
func (f *Flight) OutboundLeg() *Leg {
	if len(f.Legs) == 0 {
		return nil
	}
	return &f.Legs[0]
}

// LastLeg returns the final leg of the itinerary, or nil if there are none
func (f *Flight) LastLeg() *Leg {
	if len(f.Legs) == 0 {
		return nil
	}
	return &f.Legs[len(f.Legs)-1]
}

// TotalDurationMinutes sums the duration of all legs
func (f *Flight) TotalDurationMinutes() int {
	total := 0
	for _, leg := range f.Legs {
		total += leg.DurationInMinutes
	}
	return total
}

// DepartureHour returns the local hour of day the leg departs
func (l *Leg) DepartureHour() (int, error) {
	t, err := ParseFlightTime(l.Departure)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}

// Validate checks the structural invariant between stop count and segments
func (l *Leg) Validate() error {
	if len(l.Segments) == 0 {
		return fmt.Errorf("leg %s has no segments", l.ID)
	}
	if l.StopCount != len(l.Segments)-1 {
		return fmt.Errorf("leg %s stop count %d does not match %d segments", l.ID, l.StopCount, len(l.Segments))
	}
	return nil
}

// MarketingAirline returns the name of the leg's first marketing carrier
func (l *Leg) MarketingAirline() string {
	if len(l.Carriers.Marketing) == 0 {
		return ""
	}
	return l.Carriers.Marketing[0].Name
}
