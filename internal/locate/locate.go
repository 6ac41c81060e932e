package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/model"
	"go.uber.org/zap"
)

// Locator reports the caller's current position.
type Locator interface {
	Locate(ctx context.Context) (model.Coordinates, error)
}

// Static always reports the same position.
type Static model.Coordinates

func (s Static) Locate(ctx context.Context) (model.Coordinates, error) {
	return model.Coordinates(s), nil
}

// HTTPLocator resolves the position from an IP geolocation endpoint that
// answers {"status":"success","lat":..,"lon":..}.
type HTTPLocator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

type ipLocation struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	City    string   `json:"city"`
}

func NewHTTPLocator(cfg config.LocatorConfig, logger *zap.Logger) *HTTPLocator {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPLocator{
		url: cfg.URL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FromConfig returns the configured locator, or nil when positioning is
// disabled. A nil Locator means the device has no positioning capability.
func FromConfig(cfg config.LocatorConfig, logger *zap.Logger) Locator {
	if !cfg.Enabled || cfg.URL == "" {
		return nil
	}
	return NewHTTPLocator(cfg, logger)
}

func (l *HTTPLocator) Locate(ctx context.Context) (model.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed,
			fmt.Errorf("locator responded with status %d", resp.StatusCode))
	}

	var loc ipLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed, err)
	}

	if loc.Status != "" && loc.Status != "success" {
		msg := loc.Message
		if msg == "" {
			msg = loc.Status
		}
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed, errors.New(msg))
	}

	if loc.Lat == nil || loc.Lon == nil {
		return model.Coordinates{}, gateway.NewError(gateway.ErrGeolocationFailed, errors.New("position unavailable"))
	}

	l.logger.Debug("Position resolved",
		zap.Float64("lat", *loc.Lat),
		zap.Float64("lon", *loc.Lon),
		zap.String("city", loc.City))

	return model.Coordinates{Lat: *loc.Lat, Lon: *loc.Lon}, nil
}
