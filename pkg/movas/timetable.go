package movas

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zugreise/zugreise/pkg/document"
	"github.com/zugreise/zugreise/pkg/transit"
)

// GetTimetable queries the station board (departures or arrivals) for one
// station.
func (s *Session) GetTimetable(ctx context.Context, query TimetableQuery) (*transit.TimetableResult, error) {
	if err := s.begin(RequestStateTimetable); err != nil {
		return nil, err
	}
	defer s.finish()

	s.mutex.Lock()
	s.lastTimetableSearch = query
	s.mutex.Unlock()

	request := map[string]any{
		"anfragezeit":        query.DateTime.Format("15:04"),
		"datum":              query.DateTime.Format("2006-01-02"),
		"ursprungsBahnhofId": query.Station.ID,
		"verkehrsmittel":     trainRestrictionCodes(query.Restrictions),
	}

	endpoint := "/bahnhofstafel/abfahrt"
	if query.Mode == transit.ModeArrival {
		endpoint = "/bahnhofstafel/ankunft"
	}

	data, err := s.client.postDocument(ctx, endpoint, mimeTypeTimetable, request)
	if err != nil {
		return nil, err
	}

	return s.parseTimetable(data, query)
}

func (s *Session) parseTimetable(data []byte, query TimetableQuery) (*transit.TimetableResult, error) {
	doc, err := document.ParseObject(data)
	if err != nil {
		return nil, &ProtocolError{Message: "timetable reply is not a document"}
	}

	if strings.Contains(doc.Get("status").String(), "ERROR") {
		return nil, &BackendError{Code: doc.Get("code").String()}
	}

	// the reply carries either departure or arrival positions, never both
	var mode transit.Mode
	var entries []document.Value

	switch {
	case doc.Has("bahnhofstafelAbfahrtPositionen"):
		mode = transit.ModeDeparture
		entries = doc.Get("bahnhofstafelAbfahrtPositionen").List()
	case doc.Has("bahnhofstafelAnkunftPositionen"):
		mode = transit.ModeArrival
		entries = doc.Get("bahnhofstafelAnkunftPositionen").List()
	default:
		return nil, &ProtocolError{Message: "timetable reply has no positions"}
	}

	result := &transit.TimetableResult{Mode: mode}

	for _, entry := range entries {
		train := entry.Get("mitteltext").String()
		station := entry.Get("abfrageOrt").Get("name").String()

		var dest string
		if mode == transit.ModeDeparture {
			dest = entry.Get("richtung").String()
		} else {
			dest = entry.Get("abgangsOrt").Get("name").String()
		}

		// Approximate direction filter: the backend's ids for the same
		// location differ between endpoints, so all we can do is compare
		// the destination display name exactly.
		if query.Direction.Name != "" && dest != query.Direction.Name {
			continue
		}

		item := transit.TimetableEntry{
			CurrentStation:     station,
			DestinationStation: dest,
			TrainType:          train,
		}

		// prefer the realtime-updated platform over the scheduled one
		if entry.Get("ezGleis").String() != "" {
			item.Platform = entry.Get("ezGleis").String()
		} else {
			item.Platform = entry.Get("gleis").String()
		}

		scheduledField, realtimeField := "abgangsDatum", "ezAbgangsDatum"
		if mode == transit.ModeArrival {
			scheduledField, realtimeField = "ankunftsDatum", "ezAnkunftsDatum"
		}
		dateTime := entry.Get(scheduledField).TimeIn(s.sourceLocation)
		realDateTime := entry.Get(realtimeField).TimeIn(s.sourceLocation)

		var delaySecs int64
		if !dateTime.IsZero() && !realDateTime.IsZero() {
			delaySecs = int64(realDateTime.Sub(dateTime).Seconds())
		}

		var realtimeNotes string
		canceled := false
		for _, noteDoc := range entry.Get("echtzeitNotizen").List() {
			note := noteDoc.String()
			if note == "" {
				continue
			}
			if isCancellationNote(note) {
				canceled = true
			}
			realtimeNotes += note + "<br />"
		}

		var miscInfo string
		switch {
		case canceled:
			miscInfo = "<span style=\"color:#b30;\">Canceled!</span>"
		case delaySecs <= 0:
			miscInfo = "On-Time"
		default:
			if minutes := delaySecs / 60; minutes > 0 {
				if mode == transit.ModeDeparture {
					miscInfo = fmt.Sprintf("Departure delayed: %d min", minutes)
				} else {
					miscInfo = fmt.Sprintf("Arrival delayed: %d min", minutes)
				}
			}
		}

		if realtimeNotes != "" {
			miscInfo += "<br />" + realtimeNotes
		}

		item.Time = dateTime
		item.MiscInfo = miscInfo
		item.Latitude, item.Longitude = parseLocationIDCoordinates(entry.Get("abfrageOrt").Get("locationId").String())

		result.Entries = append(result.Entries, item)
	}

	return result, nil
}

func isCancellationNote(note string) bool {
	return strings.Contains(note, "Halt entfällt") || strings.Contains(note, "Stop cancelled")
}

// parseLocationIDCoordinates decodes coordinate-system indices from an
// @-delimited KEY=VALUE location id, e.g.
// "A=1@O=Berlin Hbf@X=13369548@Y=52525589@U=80@L=8011160@". The first X and
// Y keyed elements win.
func parseLocationIDCoordinates(locationID string) (int, int) {
	var latitude, longitude int
	var latitudeFound, longitudeFound bool

	for _, element := range strings.Split(locationID, "@") {
		pair := strings.Split(element, "=")
		if len(pair) != 2 {
			continue
		}

		value, err := strconv.Atoi(pair[1])
		if err != nil {
			continue
		}

		if !latitudeFound && strings.HasPrefix(pair[0], "X") {
			latitude = value
			latitudeFound = true
		}
		if !longitudeFound && strings.HasPrefix(pair[0], "Y") {
			longitude = value
			longitudeFound = true
		}
	}

	return latitude, longitude
}
