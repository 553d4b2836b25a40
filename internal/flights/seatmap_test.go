package flights

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sky_flights_booking/internal/models"
)

func testLayout() models.CabinLayout {
	return models.CabinLayout{
		Rows:        3,
		Unavailable: []string{"1A", "2C"},
		Premium:     []string{"1A", "1B"},
	}
}

func TestBuildSeatMapDimensions(t *testing.T) {
	rows := BuildSeatMap(testLayout(), "")
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.Len(t, row, 6)
	}
	require.Equal(t, "1A", rows[0][0].ID)
	require.Equal(t, "3F", rows[2][5].ID)
}

func TestBuildSeatMapFlags(t *testing.T) {
	rows := BuildSeatMap(testLayout(), "2B")

	seat := func(row int, col int) models.SeatMapEntry { return rows[row][col] }

	require.False(t, seat(0, 0).Available) // 1A unavailable
	require.True(t, seat(0, 0).Premium)
	require.True(t, seat(0, 1).Premium)  // 1B
	require.False(t, seat(1, 1).Premium) // 2B
	require.True(t, seat(1, 1).Selected)
	require.False(t, seat(1, 2).Available) // 2C
}

func TestBuildSeatMapUnavailableRegardlessOfSelection(t *testing.T) {
	rows := BuildSeatMap(testLayout(), "1A")
	require.False(t, rows[0][0].Available)
}

func TestBuildSeatMapSelectionReplacement(t *testing.T) {
	first := BuildSeatMap(testLayout(), "1A")
	require.True(t, first[0][0].Selected)

	second := BuildSeatMap(testLayout(), "2B")
	require.False(t, second[0][0].Selected)
	require.True(t, second[1][1].Selected)
}

func TestSeatAvailable(t *testing.T) {
	layout := testLayout()

	tests := []struct {
		seatID string
		want   bool
	}{
		{"2B", true},
		{"3F", true},
		{"1A", false}, // unavailable set
		{"4A", false}, // row out of range
		{"2G", false}, // no such letter
		{"B", false},  // malformed
		{"", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SeatAvailable(layout, tt.seatID), "seat %q", tt.seatID)
	}
}
