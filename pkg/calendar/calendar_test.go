package calendar

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugreise/zugreise/pkg/transit"

	_ "time/tzdata"
)

func sampleJourney(t *testing.T) *transit.JourneyDetailResultList {
	t.Helper()

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	return &transit.JourneyDetailResultList{
		ID:                "0",
		DepartureStation:  "Berlin Hbf",
		DepartureDateTime: time.Date(2024, 5, 1, 10, 0, 0, 0, berlin),
		ArrivalStation:    "München Hbf",
		ArrivalDateTime:   time.Date(2024, 5, 1, 14, 30, 0, 0, berlin),
		Duration:          "4:30",
		Legs: []*transit.JourneyDetailResultItem{
			{
				Train:             "ICE 123",
				Direction:         "München Hbf",
				DepartureStation:  "Berlin Hbf",
				DepartureDateTime: time.Date(2024, 5, 1, 10, 0, 0, 0, berlin),
				DepartureInfo:     "Track <b>7</b>",
				ArrivalStation:    "Nürnberg Hbf",
				ArrivalDateTime:   time.Date(2024, 5, 1, 13, 0, 0, 0, berlin),
				Info:              "<span style=\"color:#b30;\">Second class: High demand expected</span>",
			},
			{
				Train:             "ICE 725",
				Direction:         "München Hbf",
				DepartureStation:  "Nürnberg Hbf",
				DepartureDateTime: time.Date(2024, 5, 1, 13, 20, 0, 0, berlin),
				ArrivalStation:    "München Hbf",
				ArrivalDateTime:   time.Date(2024, 5, 1, 14, 30, 0, 0, berlin),
			},
		},
	}
}

func TestBuildEvent(t *testing.T) {
	event := BuildEvent(sampleJourney(t), false)

	assert.True(t, strings.HasPrefix(event, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(event, "END:VCALENDAR\r\n"))

	assert.Contains(t, event, "SUMMARY:Berlin Hbf to München Hbf\r\n")
	// Berlin is UTC+2 on this date
	assert.Contains(t, event, "DTSTART:20240501T080000Z\r\n")
	assert.Contains(t, event, "DTEND:20240501T123000Z\r\n")

	assert.Contains(t, event, "--- ICE 123 to München Hbf ---")
	assert.Contains(t, event, "2024-05-01 10:00   Berlin Hbf / Track 7")
	assert.Contains(t, event, "2024-05-01 13:00   Nürnberg Hbf")
	assert.Contains(t, event, "Second class: High demand expected")
	assert.Contains(t, event, "Added by zugreise")

	assert.NotContains(t, event, "<b>")
	assert.NotContains(t, event, "<span")
}

func TestBuildEventVia(t *testing.T) {
	journey := sampleJourney(t)
	journey.ViaStation = "Nürnberg Hbf"

	event := BuildEvent(journey, false)

	assert.Contains(t, event, "SUMMARY:Berlin Hbf via Nürnberg Hbf to München Hbf\r\n")
}

func TestBuildEventCompact(t *testing.T) {
	event := BuildEvent(sampleJourney(t), true)

	// compact keeps the leg header between the two station lines
	description := event[strings.Index(event, "DESCRIPTION:"):]
	departureIndex := strings.Index(description, "2024-05-01 10:00")
	headerIndex := strings.Index(description, "--- ICE 123 to München Hbf ---")
	arrivalIndex := strings.Index(description, "2024-05-01 13:00")
	require.True(t, departureIndex >= 0 && headerIndex >= 0 && arrivalIndex >= 0)
	assert.Less(t, departureIndex, headerIndex)
	assert.Less(t, headerIndex, arrivalIndex)

	assert.NotContains(t, event, "Added by zugreise")
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "a\\; b\\, c\\\\ d\\nnext", escapeText("a; b, c\\ d\nnext"))
	assert.Equal(t, "line\\nbreak", escapeText("line\r\nbreak"))
}

func TestWriteFile(t *testing.T) {
	path, err := WriteFile(sampleJourney(t), false)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	assert.True(t, strings.HasSuffix(path, ".ics"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VEVENT")
}
