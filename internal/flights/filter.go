package flights

import (
	"sort"

	"sky_flights_booking/internal/models"
)

// FilterFlights keeps the flights that satisfy every active filter predicate.
// Only the outbound leg (legs[0]) is evaluated; return legs are not filtered.
// The input slice is not modified.
func FilterFlights(list []models.Flight, filters models.FlightFilters) []models.Flight {
	out := make([]models.Flight, 0, len(list))
	for _, flight := range list {
		if matchesFilters(flight, filters) {
			out = append(out, flight)
		}
	}
	return out
}

func matchesFilters(flight models.Flight, filters models.FlightFilters) bool {
	leg := flight.OutboundLeg()
	if leg == nil {
		return false
	}

	if flight.Price.Raw < filters.PriceRange[0] || flight.Price.Raw > filters.PriceRange[1] {
		return false
	}

	if len(filters.Stops) > 0 && !containsInt(filters.Stops, leg.StopCount) {
		return false
	}

	if len(filters.Airlines) > 0 && !containsString(filters.Airlines, leg.MarketingAirline()) {
		return false
	}

	if len(filters.DepartureTime) > 0 {
		hour, err := leg.DepartureHour()
		if err != nil {
			return false
		}
		if !matchesAnyBucket(hour, filters.DepartureTime) {
			return false
		}
	}

	return true
}

// InBucket reports whether an hour of day falls inside the bucket's range
func InBucket(hour int, bucket models.TimeBucket) bool {
	switch bucket {
	case models.BucketMorning:
		return hour >= 6 && hour < 12
	case models.BucketAfternoon:
		return hour >= 12 && hour < 18
	case models.BucketEvening:
		return hour >= 18 && hour < 24
	case models.BucketNight:
		return hour >= 0 && hour < 6
	default:
		return false
	}
}

func matchesAnyBucket(hour int, buckets []models.TimeBucket) bool {
	for _, bucket := range buckets {
		if InBucket(hour, bucket) {
			return true
		}
	}
	return false
}

// SortFlights returns a new slice ordered by the given key and direction.
// The input slice is not modified. Ties keep their incoming order.
// An unknown sort key returns the flights in their original order.
func SortFlights(list []models.Flight, sortBy models.SortOption, order models.SortOrder) []models.Flight {
	sorted := make([]models.Flight, len(list))
	copy(sorted, list)
	if len(sorted) <= 1 {
		return sorted
	}

	var key func(f *models.Flight) float64
	switch sortBy {
	case models.SortByPrice:
		key = func(f *models.Flight) float64 { return f.Price.Raw }
	case models.SortByDuration:
		key = func(f *models.Flight) float64 { return float64(f.TotalDurationMinutes()) }
	case models.SortByDeparture:
		key = func(f *models.Flight) float64 { return legInstant(f.OutboundLeg(), false) }
	case models.SortByArrival:
		key = func(f *models.Flight) float64 { return legInstant(f.LastLeg(), true) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == models.SortDesc {
			return key(&sorted[i]) > key(&sorted[j])
		}
		return key(&sorted[i]) < key(&sorted[j])
	})

	return sorted
}

// legInstant returns the departure or arrival time of a leg as unix
// milliseconds, or zero when the leg or timestamp is unusable.
func legInstant(leg *models.Leg, arrival bool) float64 {
	if leg == nil {
		return 0
	}
	stamp := leg.Departure
	if arrival {
		stamp = leg.Arrival
	}
	t, err := models.ParseFlightTime(stamp)
	if err != nil {
		return 0
	}
	return float64(t.UnixMilli())
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
