package transit

import "time"

// TimetableEntry is one scheduled arrival or departure row at a station.
// MiscInfo carries delay, cancellation and realtime annotations as HTML.
type TimetableEntry struct {
	CurrentStation     string `json:"currentStation"`
	DestinationStation string `json:"destinationStation"`
	TrainType          string `json:"trainType"`
	Platform           string `json:"platform"`

	Time     time.Time `json:"time"`
	MiscInfo string    `json:"miscInfo"`

	// Coordinate-system indices decoded from the station id, not degrees.
	Latitude  int `json:"latitude"`
	Longitude int `json:"longitude"`
}

type TimetableResult struct {
	Mode    Mode             `json:"mode"`
	Entries []TimetableEntry `json:"entries"`
}
