package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"sky_flights_booking/internal/database"
	"sky_flights_booking/internal/flights"
	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/models"
	"sky_flights_booking/internal/query"
)

// SearchAPI is the external flight-search collaborator
type SearchAPI interface {
	SearchAirports(ctx context.Context, q string) ([]models.Option, error)
	SearchFlights(ctx context.Context, form models.SearchForm) ([]models.Flight, error)
}

// Result cache lifetimes
const (
	searchCacheTTL  = 2 * time.Hour
	airportCacheTTL = 10 * time.Minute
)

// Outcome is the structured result of a user-triggered action: either OK,
// or rejected locally with a user-facing reason. Rejections are not errors.
type Outcome struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Accepted is the successful outcome
var Accepted = Outcome{OK: true}

// Rejected builds a failed outcome with a user-facing reason
func Rejected(reason string) Outcome {
	return Outcome{OK: false, Reason: reason}
}

// FormUpdate carries the editable search form fields. Nil fields are left
// unchanged; Clear flags drop an airport selection.
type FormUpdate struct {
	TripType           *models.TripType `json:"tripType,omitempty"`
	OriginAirport      *models.Option   `json:"originAirport,omitempty"`
	DestinationAirport *models.Option   `json:"destinationAirport,omitempty"`
	ClearOrigin        bool             `json:"clearOrigin,omitempty"`
	ClearDestination   bool             `json:"clearDestination,omitempty"`
	DepartureDate      *string          `json:"departureDate,omitempty"`
	ReturnDate         *string          `json:"returnDate,omitempty"`
	SelectedClass      *models.Option   `json:"selectedClass,omitempty"`
}

// SearchResult is the outcome of a search attempt. Applied reports whether
// this response became the client's current result set; a response that lost
// the race against a newer search is returned but not applied.
type SearchResult struct {
	Outcome Outcome         `json:"outcome"`
	Flights []models.Flight `json:"flights,omitempty"`
	Applied bool            `json:"applied"`
}

// ResultPage is a filtered and sorted view over the client's current results
type ResultPage struct {
	Flights []models.Flight `json:"flights"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
}

// SearchService owns per-client search form state and orchestrates flight
// searches against the external API.
type SearchService struct {
	store database.Store
	forms *database.FormStore
	api   SearchAPI
	// Singleflight group to collapse identical concurrent searches
	searchGroup singleflight.Group
	log         *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(store database.Store, api SearchAPI) *SearchService {
	return &SearchService{
		store: store,
		forms: database.NewFormStore(store),
		api:   api,
		log:   logger.Get(),
	}
}

// GetForm returns the client's persisted form, or the defaults
func (ss *SearchService) GetForm(ctx context.Context, clientID string) models.SearchForm {
	return ss.forms.Load(ctx, clientID)
}

// UpdateForm applies the given field updates and re-persists the form.
// A locked form rejects all updates until ModifySearch is called.
func (ss *SearchService) UpdateForm(ctx context.Context, clientID string, update FormUpdate) (models.SearchForm, Outcome) {
	form := ss.forms.Load(ctx, clientID)
	if form.Locked {
		return form, Rejected("Search is locked. Use modify search to edit it.")
	}

	if update.TripType != nil {
		form.TripType = *update.TripType
	}
	if update.OriginAirport != nil {
		form.OriginAirport = update.OriginAirport
	}
	if update.ClearOrigin {
		form.OriginAirport = nil
	}
	if update.DestinationAirport != nil {
		form.DestinationAirport = update.DestinationAirport
	}
	if update.ClearDestination {
		form.DestinationAirport = nil
	}
	if update.DepartureDate != nil {
		form.DepartureDate = *update.DepartureDate
	}
	if update.ReturnDate != nil {
		form.ReturnDate = *update.ReturnDate
	}
	if update.SelectedClass != nil {
		form.SelectedClass = *update.SelectedClass
	}

	ss.forms.Save(ctx, clientID, form)
	return form, Accepted
}

// AdjustPassengers applies a single increment or decrement to a passenger
// count field and re-persists the form. Floors and caps are enforced by the
// form itself.
func (ss *SearchService) AdjustPassengers(ctx context.Context, clientID, field string, delta int) (models.SearchForm, Outcome) {
	form := ss.forms.Load(ctx, clientID)
	if form.Locked {
		return form, Rejected("Search is locked. Use modify search to edit it.")
	}

	if delta >= 0 {
		form.IncreasePassenger(field)
	} else {
		form.DecreasePassenger(field)
	}

	ss.forms.Save(ctx, clientID, form)
	return form, Accepted
}

// Search runs a flight search for the client's current form. Searches without
// both airports are rejected locally with no upstream call. A successful
// search stores the itineraries as the client's current results and locks the
// form. When overlapping searches race, only the latest one is applied.
func (ss *SearchService) Search(ctx context.Context, clientID string) (*SearchResult, error) {
	form := ss.forms.Load(ctx, clientID)
	if !form.HasAirports() {
		return &SearchResult{
			Outcome: Rejected("Please select both origin and destination airports"),
		}, nil
	}

	// Claim a generation before calling out; only the latest generation's
	// response may become the client's current results.
	generation, err := ss.store.IncrCounter(ctx, database.GenerateGenerationKey(clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to claim search generation: %w", err)
	}

	cacheKey := database.GenerateSearchCacheKey(
		form.OriginAirport.Value,
		form.DestinationAirport.Value,
		form.DepartureDate,
	)

	var itineraries []models.Flight
	if err := ss.store.GetJSON(ctx, cacheKey, &itineraries); err != nil {
		// Cache miss - collapse identical concurrent searches
		fetched, err, _ := ss.searchGroup.Do(cacheKey, func() (interface{}, error) {
			return ss.api.SearchFlights(ctx, form)
		})
		if err != nil {
			ss.log.Error("flight search failed",
				zap.String("client_id", clientID),
				zap.Error(err))
			return nil, err
		}
		itineraries = fetched.([]models.Flight)

		if err := ss.store.SetJSON(ctx, cacheKey, itineraries, searchCacheTTL); err != nil {
			ss.log.Warn("failed to cache search results", zap.Error(err))
		}
	}

	current, err := ss.store.GetCounter(ctx, database.GenerateGenerationKey(clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to read search generation: %w", err)
	}
	if current != generation {
		ss.log.Info("dropping stale search response",
			zap.String("client_id", clientID),
			zap.Int64("generation", generation),
			zap.Int64("current", current))
		return &SearchResult{Outcome: Accepted, Flights: itineraries}, nil
	}

	if err := ss.store.SetJSON(ctx, database.GenerateResultsKey(clientID), itineraries, searchCacheTTL); err != nil {
		ss.log.Warn("failed to store client results", zap.Error(err))
	}

	form.Locked = true
	ss.forms.Save(ctx, clientID, form)

	return &SearchResult{Outcome: Accepted, Flights: itineraries, Applied: true}, nil
}

// ModifySearch unlocks the form for editing and returns it
func (ss *SearchService) ModifySearch(ctx context.Context, clientID string) models.SearchForm {
	form := ss.forms.Load(ctx, clientID)
	form.Locked = false
	ss.forms.Save(ctx, clientID, form)
	return form
}

// ShareLink serializes the client's form into a shareable query string
func (ss *SearchService) ShareLink(ctx context.Context, clientID string) string {
	form := ss.forms.Load(ctx, clientID)
	return query.SerializeForm(form).Encode()
}

// Airports returns airport suggestions for the query, cached briefly
func (ss *SearchService) Airports(ctx context.Context, q string) ([]models.Option, error) {
	cacheKey := database.GenerateAirportCacheKey(q)

	var options []models.Option
	if err := ss.store.GetJSON(ctx, cacheKey, &options); err == nil {
		return options, nil
	}

	options, err := ss.api.SearchAirports(ctx, q)
	if err != nil {
		ss.log.Error("airport search failed", zap.String("query", q), zap.Error(err))
		return nil, err
	}

	if err := ss.store.SetJSON(ctx, cacheKey, options, airportCacheTTL); err != nil {
		ss.log.Warn("failed to cache airport suggestions", zap.Error(err))
	}
	return options, nil
}

// Results applies filters and sorting to the client's current result set.
// A client with no stored results gets an empty page.
func (ss *SearchService) Results(ctx context.Context, clientID string, filters models.FlightFilters, sortBy models.SortOption, order models.SortOrder) ResultPage {
	var itineraries []models.Flight
	if err := ss.store.GetJSON(ctx, database.GenerateResultsKey(clientID), &itineraries); err != nil {
		return ResultPage{Flights: []models.Flight{}}
	}

	filtered := flights.FilterFlights(itineraries, filters)
	sorted := flights.SortFlights(filtered, sortBy, order)

	return ResultPage{
		Flights: sorted,
		Count:   len(sorted),
		Total:   len(itineraries),
	}
}
