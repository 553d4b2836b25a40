package flights

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"sky_flights_booking/internal/models"
)

func testLeg(departure, arrival string, durationMin, stops int, airline string) models.Leg {
	segments := make([]models.Segment, stops+1)
	for i := range segments {
		segments[i] = models.Segment{ID: "seg"}
	}
	return models.Leg{
		ID:                "leg",
		Departure:         departure,
		Arrival:           arrival,
		DurationInMinutes: durationMin,
		StopCount:         stops,
		Carriers:          models.LegCarriers{Marketing: []models.Carrier{{Name: airline}}},
		Segments:          segments,
	}
}

func testFlight(id string, price float64, legs ...models.Leg) models.Flight {
	return models.Flight{
		ID:    id,
		Price: models.Price{Raw: price},
		Legs:  legs,
	}
}

func TestFilterFlightsPredicates(t *testing.T) {
	base := models.FlightFilters{
		PriceRange:    [2]float64{150, 650},
		Stops:         []int{0, 1},
		Airlines:      []string{"X"},
		DepartureTime: []models.TimeBucket{models.BucketMorning},
	}

	tests := []struct {
		name    string
		flight  models.Flight
		filters models.FlightFilters
		want    bool
	}{
		{
			name:    "morning one-stop on airline X is included",
			flight:  testFlight("f1", 200, testLeg("2026-03-01T07:00:00", "2026-03-01T11:00:00", 240, 1, "X")),
			filters: base,
			want:    true,
		},
		{
			name:    "same flight departing in the evening is excluded",
			flight:  testFlight("f2", 200, testLeg("2026-03-01T20:00:00", "2026-03-02T00:00:00", 240, 1, "X")),
			filters: base,
			want:    false,
		},
		{
			name:    "price below range is excluded",
			flight:  testFlight("f3", 149, testLeg("2026-03-01T07:00:00", "2026-03-01T11:00:00", 240, 0, "X")),
			filters: base,
			want:    false,
		},
		{
			name:    "price at the range bounds is included",
			flight:  testFlight("f4", 650, testLeg("2026-03-01T07:00:00", "2026-03-01T11:00:00", 240, 0, "X")),
			filters: base,
			want:    true,
		},
		{
			name:    "stop count outside the set is excluded",
			flight:  testFlight("f5", 200, testLeg("2026-03-01T07:00:00", "2026-03-01T15:00:00", 480, 2, "X")),
			filters: base,
			want:    false,
		},
		{
			name:    "other airline is excluded",
			flight:  testFlight("f6", 200, testLeg("2026-03-01T07:00:00", "2026-03-01T11:00:00", 240, 1, "Y")),
			filters: base,
			want:    false,
		},
		{
			name:   "empty sets restrict nothing",
			flight: testFlight("f7", 200, testLeg("2026-03-01T23:30:00", "2026-03-02T03:00:00", 210, 3, "Y")),
			filters: models.FlightFilters{
				PriceRange: [2]float64{0, 10000},
			},
			want: true,
		},
		{
			name:   "night bucket covers the early hours",
			flight: testFlight("f8", 200, testLeg("2026-03-01T02:00:00", "2026-03-01T06:00:00", 240, 0, "X")),
			filters: models.FlightFilters{
				PriceRange:    [2]float64{0, 10000},
				DepartureTime: []models.TimeBucket{models.BucketNight},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFlights([]models.Flight{tt.flight}, tt.filters)
			if tt.want {
				require.Len(t, got, 1)
			} else {
				require.Empty(t, got)
			}
		})
	}
}

func TestFilterFlightsIgnoresReturnLeg(t *testing.T) {
	// Only the outbound leg is evaluated; a return leg violating every
	// predicate must not exclude the flight.
	flight := testFlight("rt", 200,
		testLeg("2026-03-01T07:00:00", "2026-03-01T11:00:00", 240, 0, "X"),
		testLeg("2026-03-08T22:00:00", "2026-03-09T06:00:00", 480, 3, "Y"),
	)
	filters := models.FlightFilters{
		PriceRange:    [2]float64{150, 650},
		Stops:         []int{0},
		Airlines:      []string{"X"},
		DepartureTime: []models.TimeBucket{models.BucketMorning},
	}

	require.Len(t, FilterFlights([]models.Flight{flight}, filters), 1)
}

func TestFilterFlightsIdempotent(t *testing.T) {
	list := []models.Flight{
		testFlight("a", 100, testLeg("2026-03-01T07:00:00", "2026-03-01T09:00:00", 120, 0, "X")),
		testFlight("b", 300, testLeg("2026-03-01T13:00:00", "2026-03-01T16:00:00", 180, 1, "Y")),
		testFlight("c", 900, testLeg("2026-03-01T19:00:00", "2026-03-01T23:00:00", 240, 2, "Z")),
	}
	filters := models.FlightFilters{
		PriceRange: [2]float64{0, 500},
		Stops:      []int{0, 1},
	}

	once := FilterFlights(list, filters)
	twice := FilterFlights(once, filters)
	require.Empty(t, cmp.Diff(once, twice))
}

func TestSortFlights(t *testing.T) {
	early := testFlight("early", 300,
		testLeg("2026-03-01T06:00:00", "2026-03-01T09:00:00", 180, 0, "X"))
	cheap := testFlight("cheap", 100,
		testLeg("2026-03-01T12:00:00", "2026-03-01T13:00:00", 60, 0, "X"),
		testLeg("2026-03-05T10:00:00", "2026-03-05T11:00:00", 60, 0, "X"))
	long := testFlight("long", 200,
		testLeg("2026-03-01T09:00:00", "2026-03-02T01:00:00", 960, 1, "X"))

	list := []models.Flight{early, cheap, long}

	tests := []struct {
		name   string
		sortBy models.SortOption
		want   []string
	}{
		{"by price", models.SortByPrice, []string{"cheap", "long", "early"}},
		{"by total duration across legs", models.SortByDuration, []string{"cheap", "early", "long"}},
		{"by outbound departure", models.SortByDeparture, []string{"early", "long", "cheap"}},
		{"by last leg arrival", models.SortByArrival, []string{"early", "long", "cheap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortFlights(list, tt.sortBy, models.SortAsc)
			require.Equal(t, tt.want, flightIDs(got))
		})
	}
}

func TestSortFlightsDescMirrorsAsc(t *testing.T) {
	list := []models.Flight{
		testFlight("a", 300, testLeg("2026-03-01T06:00:00", "2026-03-01T09:00:00", 180, 0, "X")),
		testFlight("b", 100, testLeg("2026-03-01T12:00:00", "2026-03-01T13:00:00", 60, 0, "X")),
		testFlight("c", 200, testLeg("2026-03-01T09:00:00", "2026-03-01T14:00:00", 300, 0, "X")),
	}

	for _, key := range []models.SortOption{
		models.SortByPrice, models.SortByDuration, models.SortByDeparture, models.SortByArrival,
	} {
		asc := SortFlights(list, key, models.SortAsc)
		desc := SortFlights(list, key, models.SortDesc)

		reversed := make([]models.Flight, len(desc))
		for i, f := range desc {
			reversed[len(desc)-1-i] = f
		}
		require.Empty(t, cmp.Diff(asc, reversed), "key %s", key)
	}
}

func TestSortFlightsLeavesInputUnchanged(t *testing.T) {
	list := []models.Flight{
		testFlight("a", 300, testLeg("2026-03-01T06:00:00", "2026-03-01T09:00:00", 180, 0, "X")),
		testFlight("b", 100, testLeg("2026-03-01T12:00:00", "2026-03-01T13:00:00", 60, 0, "X")),
	}

	_ = SortFlights(list, models.SortByPrice, models.SortAsc)
	require.Equal(t, []string{"a", "b"}, flightIDs(list))
}

func TestSortFlightsUnknownKeyKeepsOrder(t *testing.T) {
	list := []models.Flight{
		testFlight("a", 300, testLeg("2026-03-01T06:00:00", "2026-03-01T09:00:00", 180, 0, "X")),
		testFlight("b", 100, testLeg("2026-03-01T12:00:00", "2026-03-01T13:00:00", 60, 0, "X")),
	}

	got := SortFlights(list, models.SortOption("bogus"), models.SortAsc)
	require.Equal(t, []string{"a", "b"}, flightIDs(got))
}

func flightIDs(list []models.Flight) []string {
	ids := make([]string, len(list))
	for i, f := range list {
		ids[i] = f.ID
	}
	return ids
}
