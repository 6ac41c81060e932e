package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

const maxErrorBody = 512

type OpenWeatherMapService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

var _ WeatherProvider = (*OpenWeatherMapService)(nil)

func NewOpenWeatherMapServiceWithConfig(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenWeatherMapService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tele:   tele,
	}
}

func (s *OpenWeatherMapService) Name() string {
	return "openweathermap"
}

func (s *OpenWeatherMapService) CurrentByCity(ctx context.Context, city string) (*CurrentWeather, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")

	var out CurrentWeather
	if err := s.get(ctx, "weather", q, &out, attribute.String("city", city)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OpenWeatherMapService) CurrentByCoords(ctx context.Context, lat, lon float64) (*CurrentWeather, error) {
	q := coordsQuery(lat, lon)
	q.Set("units", "metric")

	var out CurrentWeather
	if err := s.get(ctx, "weather", q, &out,
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OpenWeatherMapService) AirPollution(ctx context.Context, lat, lon float64) (*AirPollution, error) {
	var out AirPollution
	if err := s.get(ctx, "air_pollution", coordsQuery(lat, lon), &out,
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon)); err != nil {
		return nil, err
	}
	return &out, nil
}

func coordsQuery(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func (s *OpenWeatherMapService) get(ctx context.Context, endpoint string, q url.Values, out interface{}, attrs ...attribute.KeyValue) error {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweathermap."+endpoint)
	defer span.End()

	span.SetAttributes(attrs...)
	span.SetAttributes(attribute.String("service", s.Name()))

	u, err := url.Parse(fmt.Sprintf("%s/%s", s.baseURL, endpoint))
	if err != nil {
		return err
	}

	q.Set("appid", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("failed to execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	s.logger.Debug("Provider request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetAttributes(attribute.Bool("success", false))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
