package movas

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zugreise/zugreise/pkg/document"
	"github.com/zugreise/zugreise/pkg/transit"
)

// FindStationsByName looks up stations matching a free-text search term.
func (s *Session) FindStationsByName(ctx context.Context, stationName string) ([]transit.Station, error) {
	searchTerm := strings.ReplaceAll(stationName, "\"", "")

	if s.stationCache != nil {
		if stations, ok := s.stationCache.Get(ctx, searchTerm); ok {
			return stations, nil
		}
	}

	if err := s.begin(RequestStateStations); err != nil {
		return nil, err
	}
	defer s.finish()

	stations, err := s.locationSearch(ctx, searchTerm)
	if err != nil {
		return nil, err
	}

	if s.stationCache != nil {
		s.stationCache.Set(ctx, searchTerm, stations)
	}

	return stations, nil
}

// FindStationsByCoordinates looks up stations near a position. The backend's
// free-text search accepts a rounded "longitude,latitude" term.
func (s *Session) FindStationsByCoordinates(ctx context.Context, longitude float64, latitude float64) ([]transit.Station, error) {
	if err := s.begin(RequestStateStations); err != nil {
		return nil, err
	}
	defer s.finish()

	searchTerm := fmt.Sprintf("%d,%d", int64(math.Round(longitude)), int64(math.Round(latitude)))

	return s.locationSearch(ctx, searchTerm)
}

func (s *Session) locationSearch(ctx context.Context, searchTerm string) ([]transit.Station, error) {
	request := map[string]any{
		"searchTerm":    searchTerm,
		"locationTypes": []string{"ALL"},
		"maxResults":    50,
	}

	data, err := s.client.postDocument(ctx, "/location/search", mimeTypeLocation, request)
	if err != nil {
		return nil, err
	}

	return s.parseStations(data)
}

// parseStations handles the location search reply, which is a JSON list on
// success but an object when the backend signals an error.
func (s *Session) parseStations(data []byte) ([]transit.Station, error) {
	if errDoc, err := document.ParseObject(data); err == nil {
		if strings.Contains(errDoc.Get("status").String(), "ERROR") {
			return nil, &BackendError{Code: errDoc.Get("code").String()}
		}
	}

	foundStations, err := document.ParseList(data)
	if err != nil {
		return nil, &ProtocolError{Message: "location search reply is not a list"}
	}

	var results []transit.Station
	for _, stationDoc := range foundStations {
		coordinates := stationDoc.Get("coordinates")
		if len(coordinates.Map()) != 2 {
			log.Debug().Str("name", stationDoc.Get("name").String()).Msg("Skipping station with invalid coordinates")
			continue
		}

		results = append(results, transit.Station{
			ID:        stationDoc.Get("locationId").String(),
			Name:      stationDoc.Get("name").String(),
			Type:      stationDoc.Get("layer").String(),
			Latitude:  coordinates.Get("latitude").Float(),
			Longitude: coordinates.Get("longitude").Float(),
		})
	}

	return results, nil
}
