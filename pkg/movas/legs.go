package movas

import (
	"fmt"
	"strings"

	"github.com/zugreise/zugreise/pkg/document"
	"github.com/zugreise/zugreise/pkg/transit"
)

const legTypeWalk = "FUSSWEG"

// parseJourneyLegs walks one itinerary's ordered verbindungsAbschnitte list.
// Legs without a departure or arrival location are dropped silently.
func (s *Session) parseJourneyLegs(itinerary document.Value) []*transit.JourneyDetailResultItem {
	var results []*transit.JourneyDetailResultItem

	for _, leg := range itinerary.Get("verbindungsAbschnitte").List() {
		from := leg.Get("abgangsOrt")
		to := leg.Get("ankunftsOrt")
		if from.IsEmpty() || to.IsEmpty() {
			continue
		}

		transportType := leg.Get("typ").String()
		isWalk := transportType == legTypeWalk

		segment := &transit.JourneyDetailResultItem{
			DepartureStation: from.Get("name").String(),
			ArrivalStation:   to.Get("name").String(),
		}

		depDateTime := leg.Get("abgangsDatum").TimeIn(s.sourceLocation)
		realDepDateTime := leg.Get("ezAbgangsDatum").TimeIn(s.sourceLocation)
		arrDateTime := leg.Get("ankunftsDatum").TimeIn(s.sourceLocation)
		realArrDateTime := leg.Get("ezAnkunftsDatum").TimeIn(s.sourceLocation)

		segment.DepartureDateTime = depDateTime.In(s.displayLocation)
		segment.ArrivalDateTime = arrDateTime.In(s.displayLocation)

		var departureDelaySecs, arrivalDelaySecs int64
		if !depDateTime.IsZero() && !realDepDateTime.IsZero() {
			departureDelaySecs = int64(realDepDateTime.Sub(depDateTime).Seconds())
		}
		if !arrDateTime.IsZero() && !realArrDateTime.IsZero() {
			arrivalDelaySecs = int64(realArrDateTime.Sub(arrDateTime).Seconds())
		}

		var info []string

		// Platform of the first and last intermediate stop. Skipped for
		// transfers, which would duplicate the adjacent legs' platforms.
		if stops := leg.Get("halte").List(); len(stops) > 1 && !isWalk {
			firstStop := stops[0]
			if track := firstStop.Get("ezGleis").String(); track != "" {
				segment.DepartureInfo = fmt.Sprintf("Track changed to %s", track)
				segment.DepartureInfo += "<br>" + fmt.Sprintf("(From %s)", firstStop.Get("gleis").String())
			} else if track := firstStop.Get("gleis").String(); track != "" {
				segment.DepartureInfo = fmt.Sprintf("Track %s", track)
			}

			lastStop := stops[len(stops)-1]
			if track := lastStop.Get("ezGleis").String(); track != "" {
				segment.ArrivalInfo = fmt.Sprintf("Track changed to %s", track)
				segment.ArrivalInfo += "<br>" + fmt.Sprintf("(From %s)", lastStop.Get("gleis").String())
			} else if track := lastStop.Get("gleis").String(); track != "" {
				segment.ArrivalInfo = fmt.Sprintf("Track %s", track)
			}
		}

		// Per-endpoint delay annotation, skipped for transfers to avoid
		// duplicated delay displays.
		if departureDelaySecs > 0 && !isWalk {
			segment.DepartureInfo += delayAnnotation(departureDelaySecs)
		}
		if arrivalDelaySecs > 0 && !isWalk {
			segment.ArrivalInfo += delayAnnotation(arrivalDelaySecs)
		}

		departureCanceled := false
		arrivalCanceled := false

		if notes := leg.Get("echtzeitNotizen").List(); len(notes) > 0 {
			var realtimeInfo string
			for _, noteDoc := range notes {
				note := noteDoc.String()
				if note != "" {
					realtimeInfo += note + "<br />"
				}
				if isCancellationNote(note) {
					departureCanceled = true
					arrivalCanceled = true
				}
			}

			if realtimeInfo != "" {
				segment.DepartureInfo += "<br />" + realtimeInfo
				segment.ArrivalInfo += "<br />" + realtimeInfo
			}
		}

		switch {
		case departureCanceled && arrivalCanceled:
			info = append(info, "<span style=\"color:#b30;\"><b>Train canceled!</b></span>")
		case departureCanceled:
			info = append(info, "<span style=\"color:#b30;\"><b>Departure stop canceled!</b></span>")
		case arrivalCanceled:
			info = append(info, "<span style=\"color:#b30;\"><b>Arrival stop canceled!</b></span>")
		}

		var announcements []string
		for _, announcement := range leg.Get("himNotizen").List() {
			announcements = append(announcements, announcement.Get("ueberschrift").String())
			announcements = append(announcements, announcement.Get("text").String())
		}
		if len(announcements) > 0 {
			info = append(info, fmt.Sprintf("<span style=\"color:#b30;\">%s</span>", strings.Join(announcements, "<br />")))
		}

		if demandInfos := parseDemandInfos(leg.Get("auslastungsInfos").List()); len(demandInfos) > 0 {
			info = append(info, fmt.Sprintf("<span style=\"color:#b30;\">%s</span>", strings.Join(demandInfos, "<br />")))
		}

		legAttributes := parseJourneyLegAttributes(leg.Get("attributNotizen").List())

		duration := leg.Get("abschnittsDauer").Int() / 60

		if isWalk {
			segment.Train = fmt.Sprintf("Transfer (%d min)", duration)
			segment.InternalData1 = "WALK"
		} else {
			transportString := transportModeName(transportType)
			if routeName := leg.Get("mitteltext").String(); routeName != "" {
				if transportString == "" {
					transportString = routeName
				} else {
					transportString += " " + routeName
				}
			}

			if legAttributes["agencyName"] != "" {
				info = append(info, legAttributes["agencyName"])
			}

			segment.Direction = leg.Get("richtung").String()
			segment.Train = transportString
		}

		if len(info) > 0 {
			segment.Info = strings.Join(info, "<br/>")
		}

		results = append(results, segment)
	}

	return results
}

func delayAnnotation(delaySecs int64) string {
	if minutes := delaySecs / 60; minutes > 0 {
		return fmt.Sprintf("<br/><span style=\"color:#b30;\">%d min late</span>", minutes)
	}

	return "<br/><span style=\"color:#093; font-weight: normal;\">on time</span>"
}

// demandLevels maps the backend's occupancy display phrases (German or
// English) onto canonical labels. Unknown phrases pass through verbatim.
var demandLevels = []struct {
	phrases []string
	label   string
}{
	{[]string{"Geringe Auslastung erwartet", "Low demand expected"}, "Low demand expected"},
	{[]string{"Mittlere Auslastung erwartet", "Medium demand expected"}, "Medium demand expected"},
	{[]string{"Hohe Auslastung erwartet", "High demand expected"}, "High demand expected"},
	{[]string{"Außergewöhnlich hohe Auslastung erwartet", "Exceptionally high demand expected"}, "Exceptionally high demand expected"},
}

var noDemandInfoPhrases = []string{
	"Keine Auslastungsinformation verfügbar",
	"No occupancy information available",
}

func parseDemandInfos(demandDocs []document.Value) []string {
	var demandInfos []string

	for _, demandDoc := range demandDocs {
		travelClass := demandDoc.Get("klasse").String()
		displayText := demandDoc.Get("anzeigeTextKurz").String()

		if displayText == "" {
			continue
		}

		if containsAny(displayText, noDemandInfoPhrases) {
			continue
		}

		demand := displayText
		for _, level := range demandLevels {
			if containsAny(displayText, level.phrases) {
				demand = level.label
				break
			}
		}

		demandInfos = append(demandInfos, fmt.Sprintf("%s: %s", travelClassName(travelClass), demand))
	}

	return demandInfos
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}

	return false
}

func travelClassName(travelClass string) string {
	switch {
	case strings.HasPrefix(travelClass, "KLASSE_1"):
		return "First class"
	case strings.HasPrefix(travelClass, "KLASSE_2"):
		return "Second class"
	default:
		return ""
	}
}

// legAttributeCodes maps backend attribute note keys onto info slots, with
// an exact-match substitution of the known German phrase. Unrecognised
// phrases keep their raw text.
var legAttributeCodes = map[string]struct {
	slot         string
	knownPhrase  string
	substitution string
}{
	"FB": {"bikeInfo", "Fahrradmitnahme begrenzt möglich", "Bike take along limited"},
	"RO": {"wheelchairInfo", "Rollstuhlstellplatz", "Wheelchair parking"},
	"EH": {"accessibilityInfo", "Fahrzeuggebundene Einstiegshilfe vorhanden", "Vehicle bound boarding aid available"},
	"EA": {"accessibilityInfo2", "Behindertengerechte Ausstattung", "Handicapped accessible facilities"},
	"LS": {"laptopPowerInfo", "Laptop-Steckdosen", "Laptop power sockets"},
	"KL": {"ACInfo", "Klimaanlage", "Air conditioning"},
	"WV": {"wifiInfo", "WLAN verfügbar", "Wifi available"},
}

func parseJourneyLegAttributes(attributeDocs []document.Value) map[string]string {
	attributes := map[string]string{}

	for _, attributeDoc := range attributeDocs {
		key := attributeDoc.Get("key").String()
		text := attributeDoc.Get("text").String()

		if key == "OP" {
			attributes["agencyName"] = text
			continue
		}

		code, ok := legAttributeCodes[key]
		if !ok {
			continue
		}

		if text == code.knownPhrase {
			attributes[code.slot] = code.substitution
		} else {
			attributes[code.slot] = text
		}
	}

	return attributes
}

// transportModeName labels a leg type for display. Route names from the
// backend are explanatory enough for everything except walking.
func transportModeName(transportType string) string {
	if transportType == legTypeWalk {
		return "Walk"
	}

	return ""
}
