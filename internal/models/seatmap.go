package models

// CabinLayout is the static seat configuration used to derive the seat map
type CabinLayout struct {
	Rows        int      `json:"rows"`
	Unavailable []string `json:"unavailable"`
	Premium     []string `json:"premium"`
}

// SeatMapEntry is one derived seat record. It is rebuilt on every request
// and never persisted.
type SeatMapEntry struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
	Premium   bool   `json:"premium"`
	Selected  bool   `json:"selected"`
}
