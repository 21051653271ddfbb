package transit

type Mode string

const (
	ModeDeparture Mode = "Departure"
	ModeArrival   Mode = "Arrival"
)

type TravelClass string

const (
	TravelClassFirst  TravelClass = "KLASSE_1"
	TravelClassSecond TravelClass = "KLASSE_2"
)
