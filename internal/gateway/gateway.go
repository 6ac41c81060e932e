package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/model"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Mode string

const (
	ModeLive      Mode = "live"
	ModeSynthetic Mode = "synthetic"
)

// DefaultAQI is used whenever the air quality lookup yields nothing usable.
const DefaultAQI = 50

// coarse provider index (1-5) to the 0-500 scale
var aqiSteps = map[int]int{
	1: 25,
	2: 50,
	3: 100,
	4: 150,
	5: 200,
}

// RequestIDKey is the context key carrying the request id for correlated logs.
type RequestIDKey struct{}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordProviderCall(ctx context.Context, endpoint string, success bool)
	RecordLookup(ctx context.Context, mode string)
}

// Gateway acquires a WeatherResult for a city or a coordinate pair. Without a
// provider credential it serves synthetic data.
type Gateway struct {
	provider service.WeatherProvider
	mode     Mode
	now      func() time.Time
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
}

type Option func(*Gateway)

// WithProvider replaces the provider client built from config.
func WithProvider(p service.WeatherProvider) Option {
	return func(g *Gateway) {
		g.provider = p
	}
}

// WithClock replaces time.Now for day/night decisions.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

func NewGateway(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		mode:   ModeSynthetic,
		now:    time.Now,
		logger: logger,
		tele:   tele,
	}

	for _, opt := range opts {
		opt(g)
	}

	if !cfg.HasCredential() {
		g.logger.Info("No provider credential configured, serving synthetic data")
		return g, nil
	}

	if g.provider == nil {
		p, err := createProvider(cfg, logger, tele)
		if err != nil {
			return nil, err
		}
		g.provider = p
	}

	g.mode = ModeLive
	g.logger.Info("Registered weather provider", zap.String("provider", g.provider.Name()))

	return g, nil
}

func createProvider(cfg config.ProviderConfig, logger *zap.Logger, tele *telemetry.Telemetry) (service.WeatherProvider, error) {
	switch cfg.Type {
	case "", "openweathermap":
		return service.NewOpenWeatherMapServiceWithConfig(cfg, logger, tele), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

// SetMetricsRecorder sets the metrics recorder for the gateway
func (g *Gateway) SetMetricsRecorder(metrics MetricsRecorder) {
	g.metrics = metrics
}

func (g *Gateway) Mode() Mode {
	return g.mode
}

// FetchByCity looks up current weather and air quality for city.
func (g *Gateway) FetchByCity(ctx context.Context, city string) (*model.WeatherResult, error) {
	tracer := g.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "gateway.FetchByCity")
	defer span.End()

	span.SetAttributes(
		attribute.String("city", city),
		attribute.String("mode", string(g.mode)),
	)

	reqLogger := g.requestLogger(ctx)

	if g.mode == ModeSynthetic {
		res := Synthetic(city)
		g.recordLookup(ctx, ModeSynthetic)
		reqLogger.Debug("Synthetic weather generated", zap.String("city", city))
		return &res, nil
	}

	cw, err := g.provider.CurrentByCity(ctx, city)
	g.recordCall(ctx, "weather", err == nil)
	if err != nil {
		return nil, g.fail(ctx, span, reqLogger, weatherError(err))
	}

	if len(cw.Weather) == 0 {
		return nil, g.fail(ctx, span, reqLogger, NewError(ErrUnexpected, errors.New("weather payload has no condition")))
	}

	aqi := g.airQuality(ctx, cw.Coord.Lat, cw.Coord.Lon)

	sunrise := time.Unix(cw.Sys.Sunrise, 0)
	sunset := time.Unix(cw.Sys.Sunset, 0)
	night := IsNight(g.now(), sunrise, sunset)

	res := &model.WeatherResult{
		Weather: model.WeatherSnapshot{
			City:        cw.Name,
			Country:     cw.Sys.Country,
			Temperature: round(cw.Main.Temp),
			Humidity:    round(cw.Main.Humidity),
			Condition:   classify.WeatherCondition(cw.Weather[0].ID, night),
			Description: cw.Weather[0].Description,
			FeelsLike:   round(cw.Main.FeelsLike),
			WindSpeed:   round(cw.Wind.Speed * 3.6),
		},
		AQI: model.NewAirQuality(aqi),
	}

	g.recordLookup(ctx, ModeLive)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("night", night),
		attribute.String("condition", string(res.Weather.Condition)),
		attribute.Int("aqi", aqi),
	)

	reqLogger.Info("Weather lookup completed",
		zap.String("city", res.Weather.City),
		zap.String("country", res.Weather.Country),
		zap.String("condition", string(res.Weather.Condition)),
		zap.Int("aqi", aqi))

	return res, nil
}

// FetchByCoords resolves the place name at coords and then looks it up by city.
func (g *Gateway) FetchByCoords(ctx context.Context, coords model.Coordinates) (*model.WeatherResult, error) {
	tracer := g.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "gateway.FetchByCoords")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", coords.Lat),
		attribute.Float64("lon", coords.Lon),
		attribute.String("mode", string(g.mode)),
	)

	reqLogger := g.requestLogger(ctx)

	if g.mode == ModeSynthetic {
		res := Synthetic(LocationLabel)
		g.recordLookup(ctx, ModeSynthetic)
		return &res, nil
	}

	cw, err := g.provider.CurrentByCoords(ctx, coords.Lat, coords.Lon)
	g.recordCall(ctx, "reverse", err == nil)
	if err != nil {
		var statusErr *service.StatusError
		if errors.As(err, &statusErr) {
			return nil, g.fail(ctx, span, reqLogger, NewError(ErrLocationUnavailable, err))
		}
		return nil, g.fail(ctx, span, reqLogger, NewError(ErrUnexpected, err))
	}

	if cw.Name == "" {
		return nil, g.fail(ctx, span, reqLogger, NewError(ErrLocationUnavailable, errors.New("reverse lookup returned no place name")))
	}

	reqLogger.Debug("Resolved coordinates",
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
		zap.String("city", cw.Name))

	return g.FetchByCity(ctx, cw.Name)
}

// airQuality never fails: any problem yields DefaultAQI.
func (g *Gateway) airQuality(ctx context.Context, lat, lon float64) int {
	ap, err := g.provider.AirPollution(ctx, lat, lon)
	g.recordCall(ctx, "air_pollution", err == nil)
	if err != nil {
		g.requestLogger(ctx).Warn("Air quality lookup failed, using default",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Int("default_aqi", DefaultAQI),
			zap.Error(err))
		return DefaultAQI
	}

	index, ok := ap.Index()
	if !ok {
		return DefaultAQI
	}
	return AQIFromIndex(index)
}

// AQIFromIndex converts the provider's coarse 1-5 index to the 0-500 scale.
// Unknown indexes are treated as 2.
func AQIFromIndex(index int) int {
	if v, ok := aqiSteps[index]; ok {
		return v
	}
	return aqiSteps[2]
}

// IsNight reports whether now falls outside [sunrise, sunset].
func IsNight(now, sunrise, sunset time.Time) bool {
	return now.Before(sunrise) || now.After(sunset)
}

// round rounds halves toward positive infinity, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func weatherError(err error) *Error {
	var statusErr *service.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return NewError(ErrCityNotFound, err)
		}
		return NewError(ErrProviderUnavailable, err)
	}
	return NewError(ErrUnexpected, err)
}

func (g *Gateway) fail(ctx context.Context, span trace.Span, logger *zap.Logger, err *Error) error {
	span.SetAttributes(attribute.Bool("success", false))
	g.tele.RecordError(ctx, err.Err, Code(err))

	logger.Warn("Weather lookup failed",
		zap.String("kind", Code(err)),
		zap.String("message", err.Message),
		zap.NamedError("cause", err.Err))

	return err
}

func (g *Gateway) recordCall(ctx context.Context, endpoint string, success bool) {
	if g.metrics != nil {
		g.metrics.RecordProviderCall(ctx, endpoint, success)
	}
}

func (g *Gateway) recordLookup(ctx context.Context, mode Mode) {
	if g.metrics != nil {
		g.metrics.RecordLookup(ctx, string(mode))
	}
}

func (g *Gateway) requestLogger(ctx context.Context) *zap.Logger {
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
		return g.logger.With(zap.String("request_id", id))
	}
	return g.logger
}
