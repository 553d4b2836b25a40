package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFlightTime(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantHour int
		wantErr  bool
	}{
		{"zone-less local stamp", "2026-03-01T07:30:00", 7, false},
		{"full rfc3339", "2026-03-01T22:15:00+05:30", 22, false},
		{"utc rfc3339", "2026-03-01T00:05:00Z", 0, false},
		{"date only", "2026-03-01", 0, true},
		{"garbage", "not-a-time", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlightTime(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantHour, got.Hour())
		})
	}
}

func TestLegValidate(t *testing.T) {
	leg := Leg{
		ID:        "leg-1",
		StopCount: 1,
		Segments:  []Segment{{ID: "s1"}, {ID: "s2"}},
	}
	require.NoError(t, leg.Validate())

	leg.StopCount = 0
	require.Error(t, leg.Validate())

	leg.Segments = nil
	require.Error(t, leg.Validate())
}

func TestLegDepartureHour(t *testing.T) {
	leg := Leg{Departure: "2026-03-01T18:45:00"}
	hour, err := leg.DepartureHour()
	require.NoError(t, err)
	require.Equal(t, 18, hour)

	leg.Departure = "bogus"
	_, err = leg.DepartureHour()
	require.Error(t, err)
}

func TestMarketingAirline(t *testing.T) {
	leg := Leg{Carriers: LegCarriers{Marketing: []Carrier{{Name: "Aer Lingus"}, {Name: "United"}}}}
	require.Equal(t, "Aer Lingus", leg.MarketingAirline())

	var none Leg
	require.Empty(t, none.MarketingAirline())
}

func TestFlightLegAccessors(t *testing.T) {
	flight := Flight{Legs: []Leg{
		{ID: "out", DurationInMinutes: 120},
		{ID: "back", DurationInMinutes: 90},
	}}

	require.Equal(t, "out", flight.OutboundLeg().ID)
	require.Equal(t, "back", flight.LastLeg().ID)
	require.Equal(t, 210, flight.TotalDurationMinutes())

	var empty Flight
	require.Nil(t, empty.OutboundLeg())
	require.Nil(t, empty.LastLeg())
}
