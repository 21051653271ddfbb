package movas

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

// newTestSession points a session at a stub backend and pins the display
// zone to Europe/Berlin so expected strings are independent of the host's
// local time zone.
func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient()
	client.BaseURL = server.URL

	session := NewSession(client)
	session.UseDisplayLocation(berlinLocation(t))

	return session
}

// newParserSession builds a session for driving the parsers directly,
// without a backend.
func newParserSession(t *testing.T) *Session {
	t.Helper()

	session := NewSession(NewClient())
	session.UseDisplayLocation(berlinLocation(t))

	return session
}

func berlinLocation(t *testing.T) *time.Location {
	t.Helper()

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	return berlin
}
