package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sky_flights_booking/internal/database"
	"sky_flights_booking/internal/models"
)

type searchAPIMock struct {
	mock.Mock
}

func (m *searchAPIMock) SearchAirports(_ context.Context, q string) ([]models.Option, error) {
	ret := m.Called(q)
	return ret.Get(0).([]models.Option), ret.Error(1)
}

func (m *searchAPIMock) SearchFlights(_ context.Context, form models.SearchForm) ([]models.Flight, error) {
	ret := m.Called(form)
	return ret.Get(0).([]models.Flight), ret.Error(1)
}

func searchTestFlight(id string, price float64) models.Flight {
	return models.Flight{
		ID:    id,
		Price: models.Price{Raw: price},
		Legs: []models.Leg{{
			ID:        id + "-leg",
			Departure: "2026-04-10T08:00:00",
			Arrival:   "2026-04-10T12:00:00",
			StopCount: 0,
			Carriers:  models.LegCarriers{Marketing: []models.Carrier{{Name: "Aer Lingus"}}},
			Segments:  []models.Segment{{ID: "seg"}},
		}},
	}
}

func routedForm(t *testing.T, svc *SearchService, clientID string) {
	t.Helper()
	_, outcome := svc.UpdateForm(context.Background(), clientID, FormUpdate{
		OriginAirport:      &models.Option{Value: "DUB", Label: "Dublin"},
		DestinationAirport: &models.Option{Value: "JFK", Label: "New York"},
	})
	require.True(t, outcome.OK)
}

func TestSearchWithoutAirportsIsRejectedLocally(t *testing.T) {
	api := &searchAPIMock{}
	svc := NewSearchService(newMemStore(), api)

	result, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)
	require.False(t, result.Outcome.OK)
	require.NotEmpty(t, result.Outcome.Reason)

	api.AssertNotCalled(t, "SearchFlights", mock.Anything)
}

func TestSearchStoresResultsAndLocksForm(t *testing.T) {
	api := &searchAPIMock{}
	api.On("SearchFlights", mock.Anything).Return(
		[]models.Flight{searchTestFlight("f1", 200), searchTestFlight("f2", 500)}, nil).Once()

	store := newMemStore()
	svc := NewSearchService(store, api)
	routedForm(t, svc, "c1")

	result, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, result.Outcome.OK)
	require.True(t, result.Applied)
	require.Len(t, result.Flights, 2)

	form := svc.GetForm(context.Background(), "c1")
	require.True(t, form.Locked)

	page := svc.Results(context.Background(), "c1", models.FlightFilters{
		PriceRange: [2]float64{0, math.MaxFloat64},
	}, models.SortByPrice, models.SortAsc)
	require.Equal(t, 2, page.Count)
	require.Equal(t, "f1", page.Flights[0].ID)

	api.AssertExpectations(t)
}

func TestSearchUsesCachedItineraries(t *testing.T) {
	api := &searchAPIMock{}
	api.On("SearchFlights", mock.Anything).Return(
		[]models.Flight{searchTestFlight("f1", 200)}, nil).Once()

	svc := NewSearchService(newMemStore(), api)
	routedForm(t, svc, "c1")

	_, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)

	// Same route, same date: the second search must come from the cache.
	svc.ModifySearch(context.Background(), "c1")
	result, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, result.Applied)
	require.Len(t, result.Flights, 1)

	api.AssertExpectations(t)
}

func TestSearchFailureKeepsPriorResults(t *testing.T) {
	api := &searchAPIMock{}
	api.On("SearchFlights", mock.Anything).Return(
		[]models.Flight{searchTestFlight("f1", 200)}, nil).Once()

	store := newMemStore()
	svc := NewSearchService(store, api)
	routedForm(t, svc, "c1")

	_, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)

	// A later search for a different date fails upstream.
	svc.ModifySearch(context.Background(), "c1")
	date := "2026-05-01"
	_, outcome := svc.UpdateForm(context.Background(), "c1", FormUpdate{DepartureDate: &date})
	require.True(t, outcome.OK)

	api.On("SearchFlights", mock.Anything).Return([]models.Flight(nil), errors.New("upstream down")).Once()
	_, err = svc.Search(context.Background(), "c1")
	require.Error(t, err)

	// The previous result set is still served.
	page := svc.Results(context.Background(), "c1", models.FlightFilters{
		PriceRange: [2]float64{0, math.MaxFloat64},
	}, models.SortByPrice, models.SortAsc)
	require.Equal(t, 1, page.Count)
}

func TestStaleSearchResponseIsNotApplied(t *testing.T) {
	store := newMemStore()
	api := &searchAPIMock{}
	// While this response is in flight, a newer search claims the generation.
	api.On("SearchFlights", mock.Anything).Run(func(mock.Arguments) {
		_, err := store.IncrCounter(context.Background(), database.GenerateGenerationKey("c1"))
		require.NoError(t, err)
	}).Return([]models.Flight{searchTestFlight("f1", 200)}, nil).Once()

	svc := NewSearchService(store, api)
	routedForm(t, svc, "c1")

	result, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, result.Outcome.OK)
	require.False(t, result.Applied)

	// Nothing was stored and the form stayed unlocked.
	page := svc.Results(context.Background(), "c1", models.FlightFilters{
		PriceRange: [2]float64{0, math.MaxFloat64},
	}, models.SortByPrice, models.SortAsc)
	require.Zero(t, page.Count)
	require.False(t, svc.GetForm(context.Background(), "c1").Locked)
}

func TestUpdateFormRejectedWhileLocked(t *testing.T) {
	api := &searchAPIMock{}
	api.On("SearchFlights", mock.Anything).Return(
		[]models.Flight{searchTestFlight("f1", 200)}, nil).Once()

	svc := NewSearchService(newMemStore(), api)
	routedForm(t, svc, "c1")

	_, err := svc.Search(context.Background(), "c1")
	require.NoError(t, err)

	tripType := models.TripOneway
	_, outcome := svc.UpdateForm(context.Background(), "c1", FormUpdate{TripType: &tripType})
	require.False(t, outcome.OK)

	form := svc.ModifySearch(context.Background(), "c1")
	require.False(t, form.Locked)

	form, outcome = svc.UpdateForm(context.Background(), "c1", FormUpdate{TripType: &tripType})
	require.True(t, outcome.OK)
	require.Equal(t, models.TripOneway, form.TripType)
}

func TestAdjustPassengersPersists(t *testing.T) {
	svc := NewSearchService(newMemStore(), &searchAPIMock{})

	form, outcome := svc.AdjustPassengers(context.Background(), "c1", models.PassengerChildren, 1)
	require.True(t, outcome.OK)
	require.Equal(t, 1, form.Passengers.Children)

	form = svc.GetForm(context.Background(), "c1")
	require.Equal(t, 1, form.Passengers.Children)

	form, _ = svc.AdjustPassengers(context.Background(), "c1", models.PassengerAdults, -1)
	require.Equal(t, 1, form.Passengers.Adults)
}

func TestCorruptPersistedFormFallsBackToDefaults(t *testing.T) {
	store := newMemStore()
	store.setRaw(database.GenerateFormKey("c1"), []byte("{not json"))

	svc := NewSearchService(store, &searchAPIMock{})
	form := svc.GetForm(context.Background(), "c1")
	require.Equal(t, models.TripRoundtrip, form.TripType)
	require.Equal(t, 1, form.Passengers.Adults)
}

func TestAirportsAreCached(t *testing.T) {
	api := &searchAPIMock{}
	api.On("SearchAirports", "dub").Return(
		[]models.Option{{Value: "DUB", Label: "Dublin, Ireland"}}, nil).Once()

	svc := NewSearchService(newMemStore(), api)

	first, err := svc.Airports(context.Background(), "dub")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Airports(context.Background(), "dub")
	require.NoError(t, err)
	require.Equal(t, first, second)

	api.AssertExpectations(t)
}

func TestShareLinkSerializesTheForm(t *testing.T) {
	svc := NewSearchService(newMemStore(), &searchAPIMock{})
	routedForm(t, svc, "c1")

	link := svc.ShareLink(context.Background(), "c1")
	require.Contains(t, link, "originAirport=DUB")
	require.Contains(t, link, "destinationAirport=JFK")
	require.Contains(t, link, "adults=1")
}
