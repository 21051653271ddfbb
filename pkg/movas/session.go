package movas

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zugreise/zugreise/pkg/transit"
)

// RequestState identifies the request currently in flight. Only one request
// may be pending per session at any time.
type RequestState string

const (
	RequestStateNone           RequestState = "None"
	RequestStateStations       RequestState = "Stations"
	RequestStateTimetable      RequestState = "Timetable"
	RequestStateJourney        RequestState = "Journey"
	RequestStateJourneyEarlier RequestState = "JourneyEarlier"
	RequestStateJourneyLater   RequestState = "JourneyLater"
)

// StationCache is an optional shared cache for station search responses.
type StationCache interface {
	Get(ctx context.Context, term string) ([]transit.Station, bool)
	Set(ctx context.Context, term string, stations []transit.Station)
}

// JourneySearch describes one journey query. TravelClass defaults to second
// class when empty.
type JourneySearch struct {
	From transit.Station
	Via  transit.Station
	To   transit.Station

	DateTime     time.Time
	Mode         transit.Mode
	Restrictions int
	TravelClass  transit.TravelClass
}

// TimetableQuery describes one station board query. When Direction is set,
// entries whose destination does not exactly match its name are dropped.
type TimetableQuery struct {
	Station   transit.Station
	Direction transit.Station

	DateTime     time.Time
	Mode         transit.Mode
	Restrictions int
}

type journeySearchState struct {
	search      JourneySearch
	resultCount int

	// departure (mode Departure) or arrival (mode Arrival) time of the
	// first and last itinerary in the most recent response
	firstOption time.Time
	lastOption  time.Time
}

// Session owns the conversational state of one movas client: the single
// outstanding request guard, the last issued searches, the earlier/later
// pagination counters and the journey detail cache. All state mutation is
// serialised by one mutex.
type Session struct {
	client       *Client
	stationCache StationCache

	mutex sync.Mutex
	state RequestState

	lastJourneySearch   journeySearchState
	lastTimetableSearch TimetableQuery

	// consecutive earlier/later searches that did not move the respective
	// result window boundary
	unsuccessfulEarlierSearches int
	unsuccessfulLaterSearches   int

	// journey ID => detailed journey results, overwritten on every new
	// search, never evicted
	cachedResults map[string]*transit.JourneyDetailResultList

	// source and display time zones: the backend reports times in
	// Europe/Berlin, display values are converted to the caller's zone
	sourceLocation  *time.Location
	displayLocation *time.Location
}

func NewSession(client *Client) *Session {
	sourceLocation, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load source time zone, falling back to UTC")
		sourceLocation = time.UTC
	}

	return &Session{
		client:          client,
		state:           RequestStateNone,
		cachedResults:   map[string]*transit.JourneyDetailResultList{},
		sourceLocation:  sourceLocation,
		displayLocation: time.Local,
	}
}

func (s *Session) UseStationCache(cache StationCache) {
	s.stationCache = cache
}

// UseDisplayLocation overrides the time zone display times are converted to.
func (s *Session) UseDisplayLocation(location *time.Location) {
	s.displayLocation = location
}

// State reports the currently pending request kind so callers can inspect
// "busy" instead of inferring it from rejected calls.
func (s *Session) State() RequestState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state
}

func (s *Session) begin(state RequestState) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != RequestStateNone {
		return ErrBusy
	}
	s.state = state

	return nil
}

// finish returns the session to idle. Every request path must end here, even
// on error, so the caller is not permanently locked out.
func (s *Session) finish() {
	s.mutex.Lock()
	s.state = RequestStateNone
	s.mutex.Unlock()
}

// GetJourneyDetails serves itinerary detail from the result cache without a
// network round-trip. IDs are only valid for the most recent completed
// search; an ID from an earlier search may resolve to that search's
// overwritten slot or fail entirely.
func (s *Session) GetJourneyDetails(id string) (*transit.JourneyDetailResultList, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	details, ok := s.cachedResults[id]
	if !ok {
		return nil, ErrNoJourneyDetails
	}

	return details, nil
}

// SearchJourney issues a fresh journey search, resetting the pagination
// counters.
func (s *Session) SearchJourney(ctx context.Context, search JourneySearch) (*transit.JourneyResultList, error) {
	if err := s.begin(RequestStateJourney); err != nil {
		return nil, err
	}
	defer s.finish()

	s.mutex.Lock()
	s.unsuccessfulEarlierSearches = 0
	s.unsuccessfulLaterSearches = 0
	s.mutex.Unlock()

	return s.internalSearchJourney(ctx, search)
}

// SearchJourneyLater re-issues the last journey search shifted towards later
// departures. When the previous search had results and ran in departure mode
// the window advances from its last option, widening by one hour for every
// unsuccessful attempt; otherwise the query time moves one hour forward.
func (s *Session) SearchJourneyLater(ctx context.Context) (*transit.JourneyResultList, error) {
	if err := s.begin(RequestStateJourneyLater); err != nil {
		return nil, err
	}
	defer s.finish()

	s.mutex.Lock()
	search := s.lastJourneySearch.search
	if s.lastJourneySearch.resultCount > 0 && search.Mode == transit.ModeDeparture {
		search.DateTime = s.lastJourneySearch.lastOption.Add(time.Duration(s.unsuccessfulLaterSearches) * time.Hour)
	} else {
		search.DateTime = search.DateTime.Add(time.Hour)
	}
	oldFirstOption := s.lastJourneySearch.firstOption
	oldLastOption := s.lastJourneySearch.lastOption
	s.mutex.Unlock()

	result, err := s.internalSearchJourney(ctx, search)

	s.mutex.Lock()
	if !oldFirstOption.Equal(s.lastJourneySearch.firstOption) {
		s.unsuccessfulEarlierSearches = 0
	}
	if !oldLastOption.Equal(s.lastJourneySearch.lastOption) {
		s.unsuccessfulLaterSearches = 0
	} else {
		s.unsuccessfulLaterSearches++
	}
	s.mutex.Unlock()

	return result, err
}

// SearchJourneyEarlier is the counterpart of SearchJourneyLater for earlier
// arrivals.
func (s *Session) SearchJourneyEarlier(ctx context.Context) (*transit.JourneyResultList, error) {
	if err := s.begin(RequestStateJourneyEarlier); err != nil {
		return nil, err
	}
	defer s.finish()

	s.mutex.Lock()
	search := s.lastJourneySearch.search
	if s.lastJourneySearch.resultCount > 0 && search.Mode == transit.ModeArrival {
		search.DateTime = s.lastJourneySearch.firstOption.Add(time.Duration(s.unsuccessfulEarlierSearches) * -time.Hour)
	} else {
		search.DateTime = search.DateTime.Add(-time.Hour)
	}
	oldFirstOption := s.lastJourneySearch.firstOption
	oldLastOption := s.lastJourneySearch.lastOption
	s.mutex.Unlock()

	result, err := s.internalSearchJourney(ctx, search)

	s.mutex.Lock()
	if !oldFirstOption.Equal(s.lastJourneySearch.firstOption) {
		s.unsuccessfulEarlierSearches = 0
	} else {
		s.unsuccessfulEarlierSearches++
	}
	if !oldLastOption.Equal(s.lastJourneySearch.lastOption) {
		s.unsuccessfulLaterSearches = 0
	}
	s.mutex.Unlock()

	return result, err
}
