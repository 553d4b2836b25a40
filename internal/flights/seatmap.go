package flights

import (
	"fmt"
	"strconv"
	"strings"

	"sky_flights_booking/internal/models"
)

// seatLetters are the seat positions within a row
const seatLetters = "ABCDEF"

// BuildSeatMap derives the seat grid from the static cabin layout and the
// current selection, one slice of seat records per row 1..N.
func BuildSeatMap(layout models.CabinLayout, selected string) [][]models.SeatMapEntry {
	unavailable := toSet(layout.Unavailable)
	premium := toSet(layout.Premium)

	rows := make([][]models.SeatMapEntry, 0, layout.Rows)
	for row := 1; row <= layout.Rows; row++ {
		seats := make([]models.SeatMapEntry, 0, len(seatLetters))
		for _, letter := range seatLetters {
			id := fmt.Sprintf("%d%c", row, letter)
			seats = append(seats, models.SeatMapEntry{
				ID:        id,
				Available: !unavailable[id],
				Premium:   premium[id],
				Selected:  id == selected,
			})
		}
		rows = append(rows, seats)
	}
	return rows
}

// SeatAvailable reports whether the seat exists in the layout and is not
// in the unavailable set. Only available seats may be selected.
func SeatAvailable(layout models.CabinLayout, seatID string) bool {
	if !validSeatID(layout, seatID) {
		return false
	}
	return !toSet(layout.Unavailable)[seatID]
}

func validSeatID(layout models.CabinLayout, seatID string) bool {
	if len(seatID) < 2 {
		return false
	}
	letter := seatID[len(seatID)-1:]
	if !strings.Contains(seatLetters, letter) {
		return false
	}
	row, err := strconv.Atoi(seatID[:len(seatID)-1])
	if err != nil {
		return false
	}
	return row >= 1 && row <= layout.Rows
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
