package movas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugreise/zugreise/pkg/transit"
)

const stationListResponse = `[
	{
		"locationId": "A=1@O=Berlin Hbf@X=13369548@Y=52525589@L=8011160@",
		"name": "Berlin Hbf",
		"layer": "STATION",
		"coordinates": {"latitude": 52.525589, "longitude": 13.369548}
	},
	{
		"locationId": "A=1@O=Berlin Ostbahnhof@L=8010255@",
		"name": "Berlin Ostbahnhof",
		"layer": "STATION",
		"coordinates": {}
	}
]`

func TestFindStationsByName(t *testing.T) {
	var searchTerms []string
	var mutex sync.Mutex

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var request struct {
			SearchTerm string `json:"searchTerm"`
		}
		require.NoError(t, json.Unmarshal(body, &request))

		mutex.Lock()
		searchTerms = append(searchTerms, request.SearchTerm)
		mutex.Unlock()

		w.Write([]byte(stationListResponse))
	})

	session := newTestSession(t, handler)

	stations, err := session.FindStationsByName(context.Background(), `"Berlin" Hbf`)
	require.NoError(t, err)

	// stations without both coordinate fields are dropped
	require.Len(t, stations, 1)
	assert.Equal(t, "Berlin Hbf", stations[0].Name)
	assert.Equal(t, "A=1@O=Berlin Hbf@X=13369548@Y=52525589@L=8011160@", stations[0].ID)
	assert.Equal(t, "STATION", stations[0].Type)
	assert.InDelta(t, 52.525589, stations[0].Latitude, 0.000001)
	assert.InDelta(t, 13.369548, stations[0].Longitude, 0.000001)

	// quotes are stripped before the term reaches the backend
	require.Len(t, searchTerms, 1)
	assert.Equal(t, "Berlin Hbf", searchTerms[0])
}

func TestFindStationsByCoordinates(t *testing.T) {
	var searchTerms []string
	var mutex sync.Mutex

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var request struct {
			SearchTerm string `json:"searchTerm"`
		}
		require.NoError(t, json.Unmarshal(body, &request))

		mutex.Lock()
		searchTerms = append(searchTerms, request.SearchTerm)
		mutex.Unlock()

		w.Write([]byte(stationListResponse))
	})

	session := newTestSession(t, handler)

	_, err := session.FindStationsByCoordinates(context.Background(), 13.42, 52.61)
	require.NoError(t, err)

	require.Len(t, searchTerms, 1)
	assert.Equal(t, "13,53", searchTerms[0])
}

func TestFindStationsByNameNoMatches(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	session := newTestSession(t, handler)

	stations, err := session.FindStationsByName(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestFindStationsErrors(t *testing.T) {
	t.Run("backend error object", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ERROR", "code": "MVB-2000"}`))
		})
		session := newTestSession(t, handler)

		_, err := session.FindStationsByName(context.Background(), "Berlin")

		var backendError *BackendError
		require.ErrorAs(t, err, &backendError)
		assert.Equal(t, "MVB-2000", backendError.Code)
	})

	t.Run("reply is neither a list nor an error object", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unexpected": true}`))
		})
		session := newTestSession(t, handler)

		_, err := session.FindStationsByName(context.Background(), "Berlin")

		var protocolError *ProtocolError
		assert.ErrorAs(t, err, &protocolError)
	})
}

type mapStationCache struct {
	mutex   sync.Mutex
	entries map[string][]transit.Station
	hits    int
	sets    int
}

func newMapStationCache() *mapStationCache {
	return &mapStationCache{entries: map[string][]transit.Station{}}
}

func (c *mapStationCache) Get(ctx context.Context, term string) ([]transit.Station, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stations, ok := c.entries[term]
	if ok {
		c.hits++
	}

	return stations, ok
}

func (c *mapStationCache) Set(ctx context.Context, term string, stations []transit.Station) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[term] = stations
	c.sets++
}

func TestFindStationsByNameUsesCache(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(stationListResponse))
	})

	session := newTestSession(t, handler)
	cache := newMapStationCache()
	session.UseStationCache(cache)

	first, err := session.FindStationsByName(context.Background(), "Berlin Hbf")
	require.NoError(t, err)
	second, err := session.FindStationsByName(context.Background(), "Berlin Hbf")
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}
