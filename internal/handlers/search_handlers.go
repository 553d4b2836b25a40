package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/models"
	"sky_flights_booking/internal/services"
)

// SearchHandlers handles search form and flight search HTTP requests
type SearchHandlers struct {
	searchService *services.SearchService
	log           *zap.Logger
}

// NewSearchHandlers creates new search handlers
func NewSearchHandlers(searchService *services.SearchService) *SearchHandlers {
	return &SearchHandlers{
		searchService: searchService,
		log:           logger.Get(),
	}
}

// clientID identifies the browser session owning the form. The front end
// sends one; absent headers share a single default form, matching the
// original single-browser storage key.
func clientID(r *http.Request) string {
	if id := r.Header.Get("X-Client-ID"); id != "" {
		return id
	}
	return "default"
}

// GetForm returns the client's current search form
func (sh *SearchHandlers) GetForm(w http.ResponseWriter, r *http.Request) {
	form := sh.searchService.GetForm(r.Context(), clientID(r))
	writeJSON(w, http.StatusOK, form)
}

// UpdateForm applies field updates to the search form
func (sh *SearchHandlers) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var update services.FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	form, outcome := sh.searchService.UpdateForm(r.Context(), clientID(r), update)
	if !outcome.OK {
		writeJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// AdjustPassengers increments or decrements one passenger count field
func (sh *SearchHandlers) AdjustPassengers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Delta int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Field == "" {
		http.Error(w, "Missing required parameter: field", http.StatusBadRequest)
		return
	}

	form, outcome := sh.searchService.AdjustPassengers(r.Context(), clientID(r), req.Field, req.Delta)
	if !outcome.OK {
		writeJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Search runs a flight search for the client's current form
func (sh *SearchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := sh.searchService.Search(ctx, clientID(r))
	if err != nil {
		sh.log.Error("flight search error", zap.Error(err))
		http.Error(w, "Flight search failed", http.StatusBadGateway)
		return
	}
	if !result.Outcome.OK {
		writeJSON(w, http.StatusUnprocessableEntity, result.Outcome)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ModifySearch unlocks the form for editing
func (sh *SearchHandlers) ModifySearch(w http.ResponseWriter, r *http.Request) {
	form := sh.searchService.ModifySearch(r.Context(), clientID(r))
	writeJSON(w, http.StatusOK, form)
}

// ShareLink returns the form serialized as a shareable query string
func (sh *SearchHandlers) ShareLink(w http.ResponseWriter, r *http.Request) {
	link := sh.searchService.ShareLink(r.Context(), clientID(r))
	writeJSON(w, http.StatusOK, map[string]string{"query": link})
}

// SearchAirports returns airport suggestions for a query
func (sh *SearchHandlers) SearchAirports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	options, err := sh.searchService.Airports(ctx, q)
	if err != nil {
		sh.log.Error("airport search error", zap.String("query", q), zap.Error(err))
		http.Error(w, "Airport search failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, options)
}

// Results returns the client's current results, filtered and sorted
func (sh *SearchHandlers) Results(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sortBy := models.SortOption(r.URL.Query().Get("sortBy"))
	if sortBy == "" {
		sortBy = models.SortByPrice
	}
	order := models.SortOrder(r.URL.Query().Get("order"))
	if order == "" {
		order = models.SortAsc
	}

	page := sh.searchService.Results(r.Context(), clientID(r), filters, sortBy, order)
	writeJSON(w, http.StatusOK, page)
}

// parseFilters reads the filter query parameters. Absent parameters leave a
// predicate inactive: the price range spans everything and the sets stay empty.
func parseFilters(r *http.Request) (models.FlightFilters, error) {
	q := r.URL.Query()
	filters := models.FlightFilters{
		PriceRange: [2]float64{0, math.MaxFloat64},
	}

	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, errInvalidParam("minPrice")
		}
		filters.PriceRange[0] = v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, errInvalidParam("maxPrice")
		}
		filters.PriceRange[1] = v
	}
	if raw := q.Get("stops"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return filters, errInvalidParam("stops")
			}
			filters.Stops = append(filters.Stops, v)
		}
	}
	if raw := q.Get("airlines"); raw != "" {
		filters.Airlines = strings.Split(raw, ",")
	}
	if raw := q.Get("departureTime"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			filters.DepartureTime = append(filters.DepartureTime, models.TimeBucket(strings.TrimSpace(part)))
		}
	}

	return filters, nil
}

type invalidParamError string

func errInvalidParam(name string) error {
	return invalidParamError(name)
}

func (e invalidParamError) Error() string {
	return "Invalid parameter: " + string(e)
}

// writeJSON encodes v to the response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Error("failed to encode response", zap.Error(err))
	}
}
