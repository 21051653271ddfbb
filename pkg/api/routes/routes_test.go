package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugreise/zugreise/pkg/movas"
)

func newTestApp(t *testing.T, backend http.Handler) *fiber.App {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := movas.NewClient()
	client.BaseURL = server.URL
	session := movas.NewSession(client)

	app := fiber.New()
	group := app.Group("/core")
	group.Get("version", APIVersion)
	StationsRouter(group.Group("/stations"), session)
	TimetableRouter(group.Group("/timetable"), session)
	JourneysRouter(group.Group("/journeys"), session)

	return app
}

func staticBackend(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func TestAPIVersion(t *testing.T) {
	app := newTestApp(t, staticBackend(`{}`))

	resp, err := app.Test(httptest.NewRequest("GET", "/core/version", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"version": "1.0"}`, string(body))
}

func TestListStations(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`[]`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/stations/", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("returns matched stations", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`[{
			"locationId": "A=1@L=8011160@",
			"name": "Berlin Hbf",
			"layer": "STATION",
			"coordinates": {"latitude": 52.5, "longitude": 13.4}
		}]`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/stations/?name=Berlin", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Berlin Hbf")
	})

	t.Run("unparseable backend reply maps to bad gateway", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`<html>maintenance</html>`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/stations/?name=Berlin", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})

	t.Run("nearby requires both coordinates", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`[]`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/stations/nearby?longitude=13.4", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetTimetable(t *testing.T) {
	t.Run("rejects unknown mode", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{}`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/timetable/A=1@L=8011160@?mode=sideways", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects malformed datetime", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{}`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/timetable/A=1@L=8011160@?datetime=tomorrow", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("returns board entries", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"bahnhofstafelAbfahrtPositionen": [{
			"mitteltext": "ICE 123",
			"abfrageOrt": {"name": "Berlin Hbf"},
			"richtung": "München Hbf",
			"gleis": "7",
			"abgangsDatum": "2024-05-01T10:00:00"
		}]}`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/timetable/A=1@L=8011160@", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "ICE 123")
	})
}

func TestSearchJourneysRoute(t *testing.T) {
	journeyRequest := func(body string) *http.Request {
		req := httptest.NewRequest("POST", "/core/journeys/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("requires origin and destination", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"verbindungen": []}`))

		resp, err := app.Test(journeyRequest(`{"from": {"id": "A=1@L=8011160@"}}`))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"verbindungen": []}`))

		resp, err := app.Test(journeyRequest(`{
			"from": {"id": "A=1@L=8011160@"},
			"to": {"id": "A=1@L=8000261@"},
			"mode": "sideways"
		}`))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("searches and serves details", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"verbindungen": [{"verbindung": {
			"reiseDauer": 3600,
			"verbindungsAbschnitte": [{
				"typ": "ZUG",
				"mitteltext": "ICE 1",
				"abgangsOrt": {"name": "Berlin Hbf"},
				"ankunftsOrt": {"name": "Leipzig Hbf"},
				"abgangsDatum": "2024-05-01T10:00:00",
				"ankunftsDatum": "2024-05-01T11:00:00"
			}]
		}}]}`))

		resp, err := app.Test(journeyRequest(`{
			"from": {"id": "A=1@L=8011160@", "name": "Berlin Hbf"},
			"to": {"id": "A=1@L=8010205@", "name": "Leipzig Hbf"},
			"dateTime": "2024-05-01T09:30:00+02:00"
		}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/core/journeys/0/details", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "ICE 1")
	})

	t.Run("unknown journey id is not found", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"verbindungen": []}`))

		resp, err := app.Test(httptest.NewRequest("GET", "/core/journeys/9/details", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("calendar export", func(t *testing.T) {
		app := newTestApp(t, staticBackend(`{"verbindungen": [{"verbindung": {
			"reiseDauer": 3600,
			"verbindungsAbschnitte": [{
				"typ": "ZUG",
				"mitteltext": "ICE 1",
				"abgangsOrt": {"name": "Berlin Hbf"},
				"ankunftsOrt": {"name": "Leipzig Hbf"},
				"abgangsDatum": "2024-05-01T10:00:00",
				"ankunftsDatum": "2024-05-01T11:00:00"
			}]
		}}]}`))

		resp, err := app.Test(journeyRequest(`{
			"from": {"id": "A=1@L=8011160@", "name": "Berlin Hbf"},
			"to": {"id": "A=1@L=8010205@", "name": "Leipzig Hbf"}
		}`))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/core/journeys/0/calendar", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/calendar")

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "BEGIN:VCALENDAR")
	})
}
