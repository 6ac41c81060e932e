package session

import (
	"context"
	"errors"
	"sync"

	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/locate"
	"github.com/vzahanych/weather-lookup/internal/model"
	"go.uber.org/zap"
)

// ErrBusy is returned when a request is made while another is outstanding.
var ErrBusy = errors.New("a lookup is already in progress")

// Fetcher is the part of the gateway a session drives.
type Fetcher interface {
	FetchByCity(ctx context.Context, city string) (*model.WeatherResult, error)
	FetchByCoords(ctx context.Context, coords model.Coordinates) (*model.WeatherResult, error)
}

// Session tracks one user's lookups: the display state, the latest result
// or failure, and the last searched city for retries.
type Session struct {
	mu        sync.Mutex
	fetcher   Fetcher
	locator   locate.Locator
	logger    *zap.Logger
	state     State
	result    *model.WeatherResult
	err       *gateway.Error
	lastQuery string
}

// New creates an idle session. A nil locator means positioning is unsupported.
func New(fetcher Fetcher, locator locate.Locator, logger *zap.Logger) *Session {
	return &Session{
		fetcher: fetcher,
		locator: locator,
		logger:  logger,
		state:   Idle,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the most recent successful result, which survives later failures.
func (s *Session) Result() *model.WeatherResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the failure of the last request, if it failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return nil
	}
	return s.err
}

func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Condition is the condition to paint the background with.
func (s *Session) Condition() classify.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return classify.ClearDay
	}
	return s.result.Weather.Condition
}

func (s *Session) Search(ctx context.Context, city string) (*model.WeatherResult, error) {
	return s.search(ctx, city, EventSearch)
}

// Retry repeats the last city search. Without one the session goes back to idle.
func (s *Session) Retry(ctx context.Context) (*model.WeatherResult, error) {
	s.mu.Lock()
	query := s.lastQuery
	if query == "" {
		err := s.apply(EventReset)
		s.mu.Unlock()
		if err != nil {
			return nil, ErrBusy
		}
		return nil, nil
	}
	s.mu.Unlock()

	return s.search(ctx, query, EventRetry)
}

// UseLocation looks up weather at the locator's position. It does not
// replace the remembered city query.
func (s *Session) UseLocation(ctx context.Context) (*model.WeatherResult, error) {
	if err := s.begin(EventLocate, ""); err != nil {
		return nil, err
	}

	if s.locator == nil {
		return s.finish(nil, gateway.NewError(gateway.ErrGeolocationUnsupported, nil))
	}

	coords, err := s.locator.Locate(ctx)
	if err != nil {
		if gateway.KindOf(err) != gateway.ErrGeolocationFailed {
			err = gateway.NewError(gateway.ErrGeolocationFailed, err)
		}
		return s.finish(nil, err)
	}

	return s.finish(s.fetcher.FetchByCoords(ctx, coords))
}

func (s *Session) search(ctx context.Context, city string, ev Event) (*model.WeatherResult, error) {
	if err := s.begin(ev, city); err != nil {
		return nil, err
	}
	return s.finish(s.fetcher.FetchByCity(ctx, city))
}

func (s *Session) begin(ev Event, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(ev); err != nil {
		return ErrBusy
	}

	s.err = nil
	if query != "" {
		s.lastQuery = query
	}
	return nil
}

func (s *Session) finish(res *model.WeatherResult, err error) (*model.WeatherResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = gateway.AsError(err)
		_ = s.apply(EventFailed)
		return nil, s.err
	}

	s.result = res
	_ = s.apply(EventSucceeded)
	return res, nil
}

// apply must be called with mu held.
func (s *Session) apply(ev Event) error {
	next, err := Transition(s.state, ev)
	if err != nil {
		s.logger.Warn("Rejected state transition",
			zap.String("state", string(s.state)),
			zap.String("event", string(ev)))
		return err
	}

	s.logger.Debug("State transition",
		zap.String("from", string(s.state)),
		zap.String("to", string(next)),
		zap.String("event", string(ev)))
	s.state = next
	return nil
}
