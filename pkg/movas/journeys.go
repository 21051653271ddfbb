package movas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zugreise/zugreise/pkg/document"
	"github.com/zugreise/zugreise/pkg/transit"
)

// internalSearchJourney issues one journey search round-trip. Callers hold
// the single-flight slot; this function records the search as the session's
// last journey search before sending.
func (s *Session) internalSearchJourney(ctx context.Context, search JourneySearch) (*transit.JourneyResultList, error) {
	if search.TravelClass == "" {
		search.TravelClass = transit.TravelClassSecond
	}

	s.mutex.Lock()
	s.lastJourneySearch.search = search
	s.lastJourneySearch.resultCount = 0
	s.mutex.Unlock()

	restrictionCodes := trainRestrictionCodes(search.Restrictions)

	wunsch := map[string]any{
		"abgangsLocationId": search.From.ID,
		"verkehrsmittel":    restrictionCodes,
		"zielLocationId":    search.To.ID,
	}

	if search.Via.ID != "" {
		wunsch["viaLocations"] = []any{
			map[string]any{
				"locationId":     search.Via.ID,
				"verkehrsmittel": restrictionCodes,
			},
		}
	}

	zeitPunktArt := "ABFAHRT"
	if search.Mode == transit.ModeArrival {
		zeitPunktArt = "ANKUNFT"
	}
	wunsch["zeitWunsch"] = map[string]any{
		"reiseDatum":   search.DateTime.In(s.sourceLocation).Format(time.RFC3339),
		"zeitPunktArt": zeitPunktArt,
	}

	request := map[string]any{
		"autonomeReservierung": false,
		"einstiegsTypList":     []string{"STANDARD"},
		"klasse":               string(search.TravelClass),
		"reiseHin":             map[string]any{"wunsch": wunsch},
		"reisendenProfil": map[string]any{
			"reisende": []any{
				map[string]any{
					"ermaessigungen": []string{"KEINE_ERMAESSIGUNG KLASSENLOS"},
					"reisendenTyp":   "ERWACHSENER",
				},
			},
		},
		"reservierungsKontingenteVorhanden": false,
	}

	data, err := s.client.postDocument(ctx, "/angebote/fahrplan", mimeTypeJourneys, request)
	if err != nil {
		return nil, err
	}

	return s.parseSearchJourney(data, search)
}

func (s *Session) parseSearchJourney(data []byte, search JourneySearch) (*transit.JourneyResultList, error) {
	doc, err := document.ParseObject(data)
	if err != nil {
		return nil, &ProtocolError{Message: "journey reply is not a document"}
	}

	if strings.Contains(doc.Get("status").String(), "ERROR") {
		return nil, &BackendError{Code: doc.Get("code").String()}
	}

	journeyList := &transit.JourneyResultList{
		DepartureStation: search.From.Name,
		ArrivalStation:   search.To.Name,
	}

	journeyCounter := 0
	hasFoundWalkOnlyRoute := false

	for _, itineraryDoc := range doc.Get("verbindungen").List() {
		itinerary := itineraryDoc.Get("verbindung")
		journeyID := fmt.Sprint(journeyCounter)

		legs := s.parseJourneyLegs(itinerary)
		if len(legs) == 0 {
			continue
		}

		minutes := int(itinerary.Get("reiseDauer").Float()) / 60
		duration := fmt.Sprintf("%d:%02d", minutes/60, minutes%60)

		var transportModes []string
		for _, leg := range legs {
			if leg.InternalData1 != "WALK" {
				transportModes = append(transportModes, leg.Train)
			}
		}

		// Short distances can yield itineraries consisting of a single walk
		// leg; the backend sometimes emits several of them, so only the
		// first one is kept.
		if len(transportModes) == 0 && len(legs) == 1 {
			if hasFoundWalkOnlyRoute {
				log.Debug().Msg("Skipping walk only route (have already got one)")
				continue
			}
			transportModes = append(transportModes, legs[0].Train)
			hasFoundWalkOnlyRoute = true
		}

		journeyDetails := &transit.JourneyDetailResultList{
			ID:                journeyID,
			DepartureStation:  legs[0].DepartureStation,
			DepartureDateTime: legs[0].DepartureDateTime,
			ArrivalStation:    legs[len(legs)-1].ArrivalStation,
			ArrivalDateTime:   legs[len(legs)-1].ArrivalDateTime,
			ViaStation:        search.Via.Name,
			Duration:          duration,
			Legs:              legs,
		}

		s.mutex.Lock()
		s.cachedResults[journeyID] = journeyDetails
		s.mutex.Unlock()

		queriedDate := search.DateTime.In(s.displayLocation)
		journey := &transit.JourneyResultItem{
			ID:            journeyID,
			Date:          journeyDetails.DepartureDateTime,
			DepartureTime: displayTimeWithDayOffset(journeyDetails.DepartureDateTime, queriedDate),
			ArrivalTime:   displayTimeWithDayOffset(journeyDetails.ArrivalDateTime, queriedDate),
			TrainType:     strings.Join(transportModes, ", "),
			Duration:      journeyDetails.Duration,
			Transfers:     fmt.Sprint(len(transportModes) - 1),
		}
		journeyList.Items = append(journeyList.Items, journey)

		boundary := journeyDetails.DepartureDateTime
		if search.Mode == transit.ModeArrival {
			boundary = journeyDetails.ArrivalDateTime
		}
		s.mutex.Lock()
		if journeyCounter == 0 {
			s.lastJourneySearch.firstOption = boundary
		}
		s.lastJourneySearch.lastOption = boundary
		s.mutex.Unlock()

		journeyCounter++
	}

	s.mutex.Lock()
	s.lastJourneySearch.resultCount = journeyCounter
	s.mutex.Unlock()

	modeString := "Departures"
	if search.Mode == transit.ModeArrival {
		modeString = "Arrivals"
	}
	journeyList.TimeInfo = modeString + " " + search.DateTime.In(s.displayLocation).Format("Mon Jan 2, 15:04")

	return journeyList, nil
}

// displayTimeWithDayOffset renders "HH:mm" with a trailing "+N"/"-N" marker
// when the timestamp falls on a different calendar day than the queried date.
func displayTimeWithDayOffset(dateTime time.Time, queried time.Time) string {
	display := dateTime.Format("15:04")

	dayDiff := calendarDaysBetween(queried, dateTime)
	if dayDiff > 0 {
		display += fmt.Sprintf("+%d", dayDiff)
	} else if dayDiff < 0 {
		display += fmt.Sprint(dayDiff)
	}

	return display
}

func calendarDaysBetween(from time.Time, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(toDate.Sub(fromDate).Hours() / 24)
}
