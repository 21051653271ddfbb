package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zugreise/zugreise/pkg/transit"
	"github.com/zugreise/zugreise/pkg/util"
)

const icsDateTimeFormat = "20060102T150405"

// BuildEvent renders one journey as a single-VEVENT iCalendar document. The
// compact format keeps the per-leg header between the two station lines and
// drops the extra annotation blocks.
func BuildEvent(journey *transit.JourneyDetailResultList, compact bool) string {
	title := fmt.Sprintf("%s to %s", journey.DepartureStation, journey.ArrivalStation)
	if journey.ViaStation != "" {
		title = fmt.Sprintf("%s via %s to %s", journey.DepartureStation, journey.ViaStation, journey.ArrivalStation)
	}

	var description strings.Builder

	if journey.Info != "" {
		description.WriteString(util.StripHTML(journey.Info))
		description.WriteString("\n")
	}

	for _, leg := range journey.Legs {
		train := leg.Train
		if leg.Direction != "" {
			train = fmt.Sprintf("%s to %s", leg.Train, leg.Direction)
		}

		if !compact && train != "" {
			description.WriteString("--- " + train + " ---\n")
		}

		description.WriteString(formatStation(leg.DepartureDateTime, leg.DepartureStation, leg.DepartureInfo))
		description.WriteString("\n")

		if compact && train != "" {
			description.WriteString("--- " + train + " ---\n")
		}

		description.WriteString(formatStation(leg.ArrivalDateTime, leg.ArrivalStation, leg.ArrivalInfo))
		description.WriteString("\n")

		if !compact {
			if leg.Info != "" {
				description.WriteString(util.StripHTML(leg.Info))
				description.WriteString("\n")
			}
			description.WriteString("\n")
		}
	}

	if !compact {
		description.WriteString("-- \nAdded by zugreise. Please, re-check the information before your journey.")
	}

	var event strings.Builder
	event.WriteString("BEGIN:VCALENDAR\r\n")
	event.WriteString("VERSION:2.0\r\n")
	event.WriteString("PRODID:-//zugreise//journey export//EN\r\n")
	event.WriteString("BEGIN:VEVENT\r\n")
	event.WriteString("UID:" + journey.DepartureDateTime.UTC().Format(icsDateTimeFormat) + "-" + escapeText(journey.ID) + "@zugreise\r\n")
	event.WriteString("DTSTAMP:" + time.Now().UTC().Format(icsDateTimeFormat) + "Z\r\n")
	event.WriteString("DTSTART:" + journey.DepartureDateTime.UTC().Format(icsDateTimeFormat) + "Z\r\n")
	event.WriteString("DTEND:" + journey.ArrivalDateTime.UTC().Format(icsDateTimeFormat) + "Z\r\n")
	event.WriteString("SUMMARY:" + escapeText(title) + "\r\n")
	event.WriteString("DESCRIPTION:" + escapeText(description.String()) + "\r\n")
	event.WriteString("END:VEVENT\r\n")
	event.WriteString("END:VCALENDAR\r\n")

	return event.String()
}

// WriteFile drops the rendered event into a temporary event-*.ics file and
// returns its path, ready to be handed to the platform's file opener.
func WriteFile(journey *transit.JourneyDetailResultList, compact bool) (string, error) {
	file, err := os.CreateTemp("", "event-*.ics")
	if err != nil {
		return "", fmt.Errorf("failed to create calendar file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(BuildEvent(journey, compact)); err != nil {
		return "", fmt.Errorf("failed to write calendar file: %w", err)
	}

	return file.Name(), nil
}

func formatStation(dateTime time.Time, stationName string, info string) string {
	station := stationName
	if info != "" {
		station = fmt.Sprintf("%s / %s", stationName, util.StripHTML(info))
	}

	return fmt.Sprintf("%s %s   %s", dateTime.Format("2006-01-02"), dateTime.Format("15:04"), station)
}

// escapeText applies RFC 5545 text escaping.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")

	return s
}
