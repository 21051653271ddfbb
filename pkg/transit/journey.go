package transit

import "time"

// JourneyDetailResultItem is one leg of an itinerary: a continuous ride or a
// walking transfer. Info fields carry annotated HTML text.
type JourneyDetailResultItem struct {
	DepartureStation  string    `json:"departureStation"`
	DepartureDateTime time.Time `json:"departureDateTime"`
	DepartureInfo     string    `json:"departureInfo"`

	ArrivalStation  string    `json:"arrivalStation"`
	ArrivalDateTime time.Time `json:"arrivalDateTime"`
	ArrivalInfo     string    `json:"arrivalInfo"`

	Train     string `json:"train"`
	Direction string `json:"direction"`
	Info      string `json:"info"`

	// InternalData1 tags walking transfer legs with "WALK".
	InternalData1 string `json:"internalData1,omitempty"`
}

// JourneyDetailResultList is the full ordered leg sequence for one itinerary
// plus aggregate fields. Instances live in the session result cache keyed by
// their synthetic ID.
type JourneyDetailResultList struct {
	ID string `json:"id"`

	DepartureStation  string    `json:"departureStation"`
	DepartureDateTime time.Time `json:"departureDateTime"`
	ArrivalStation    string    `json:"arrivalStation"`
	ArrivalDateTime   time.Time `json:"arrivalDateTime"`
	ViaStation        string    `json:"viaStation,omitempty"`
	Duration          string    `json:"duration"`
	Info              string    `json:"info,omitempty"`

	Legs []*JourneyDetailResultItem `json:"legs"`
}

// JourneyResultItem is an itinerary summary row for list display. Departure
// and arrival times are display strings ("HH:mm", possibly with a "+N"/"-N"
// day-offset marker relative to the queried date).
type JourneyResultItem struct {
	ID string `json:"id"`

	Date          time.Time `json:"date"`
	DepartureTime string    `json:"departureTime"`
	ArrivalTime   string    `json:"arrivalTime"`
	TrainType     string    `json:"trainType"`
	Duration      string    `json:"duration"`
	Transfers     string    `json:"transfers"`
	MiscInfo      string    `json:"miscInfo,omitempty"`
}

type JourneyResultList struct {
	DepartureStation string `json:"departureStation"`
	ArrivalStation   string `json:"arrivalStation"`
	TimeInfo         string `json:"timeInfo"`

	Items []*JourneyResultItem `json:"items"`
}
