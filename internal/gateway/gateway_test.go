package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/model"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

const (
	sunrise = int64(1700000000)
	sunset  = int64(1700040000)
)

const cityPayload = `{
	"coord": {"lon": -0.1257, "lat": 51.5085},
	"weather": [{"id": 501, "description": "moderate rain"}],
	"main": {"temp": 11.5, "feels_like": -2.5, "humidity": 81},
	"wind": {"speed": 10},
	"sys": {"country": "GB", "sunrise": 1700000000, "sunset": 1700040000},
	"name": "London"
}`

// fakeOWM emulates the provider's weather and air_pollution endpoints.
type fakeOWM struct {
	mu            sync.Mutex
	weatherStatus int
	weatherBody   string
	reverseStatus int
	reverseBody   string
	aqiStatus     int
	aqiBody       string
	calls         []string
	lastCityQuery string
}

func newFakeOWM() *fakeOWM {
	return &fakeOWM{
		weatherStatus: http.StatusOK,
		weatherBody:   cityPayload,
		reverseStatus: http.StatusOK,
		reverseBody:   `{"name": "London", "sys": {"country": "GB"}}`,
		aqiStatus:     http.StatusOK,
		aqiBody:       `{"list": [{"main": {"aqi": 3}}]}`,
	}
}

func (f *fakeOWM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	switch {
	case r.URL.Path == "/air_pollution":
		f.calls = append(f.calls, "air_pollution")
		w.WriteHeader(f.aqiStatus)
		w.Write([]byte(f.aqiBody))
	case r.URL.Path == "/weather" && q.Get("q") != "":
		f.calls = append(f.calls, "weather")
		f.lastCityQuery = q.Get("q")
		w.WriteHeader(f.weatherStatus)
		w.Write([]byte(f.weatherBody))
	case r.URL.Path == "/weather":
		f.calls = append(f.calls, "reverse")
		w.WriteHeader(f.reverseStatus)
		w.Write([]byte(f.reverseBody))
	default:
		w.WriteHeader(http.StatusTeapot)
	}
}

func (f *fakeOWM) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// panicProvider fails the test if the gateway reaches the network.
type panicProvider struct {
	t *testing.T
}

func (p panicProvider) CurrentByCity(ctx context.Context, city string) (*service.CurrentWeather, error) {
	p.t.Fatalf("unexpected provider call CurrentByCity(%q)", city)
	return nil, nil
}

func (p panicProvider) CurrentByCoords(ctx context.Context, lat, lon float64) (*service.CurrentWeather, error) {
	p.t.Fatalf("unexpected provider call CurrentByCoords(%v, %v)", lat, lon)
	return nil, nil
}

func (p panicProvider) AirPollution(ctx context.Context, lat, lon float64) (*service.AirPollution, error) {
	p.t.Fatalf("unexpected provider call AirPollution(%v, %v)", lat, lon)
	return nil, nil
}

func (p panicProvider) Name() string { return "panic" }

type recordingMetrics struct {
	calls   map[string]int
	errors  map[string]int
	lookups map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		calls:   map[string]int{},
		errors:  map[string]int{},
		lookups: map[string]int{},
	}
}

func (m *recordingMetrics) RecordProviderCall(ctx context.Context, endpoint string, success bool) {
	m.calls[endpoint]++
	if !success {
		m.errors[endpoint]++
	}
}

func (m *recordingMetrics) RecordLookup(ctx context.Context, mode string) {
	m.lookups[mode]++
}

func daytime() time.Time {
	return time.Unix(sunrise+3600, 0)
}

func newLiveGateway(t *testing.T, fake *fakeOWM, now time.Time) *Gateway {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	g, err := NewGateway(config.ProviderConfig{
		Type:    "openweathermap",
		BaseURL: srv.URL,
		APIKey:  "key",
		Timeout: 2,
	}, zaptest.NewLogger(t), &telemetry.Telemetry{}, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return g
}

func newSyntheticGateway(t *testing.T) *Gateway {
	g, err := NewGateway(config.ProviderConfig{}, zaptest.NewLogger(t), nil, WithProvider(panicProvider{t}))
	require.NoError(t, err)
	return g
}

func TestNewGateway_Modes(t *testing.T) {
	assert.Equal(t, ModeSynthetic, newSyntheticGateway(t).Mode())
	assert.Equal(t, ModeLive, newLiveGateway(t, newFakeOWM(), daytime()).Mode())
}

func TestNewGateway_UnknownProviderType(t *testing.T) {
	_, err := NewGateway(config.ProviderConfig{Type: "carrier-pigeon", APIKey: "key"}, zaptest.NewLogger(t), nil)
	assert.Error(t, err)
}

func TestFetchByCity_SyntheticNeverCallsProvider(t *testing.T) {
	g := newSyntheticGateway(t)
	metrics := newRecordingMetrics()
	g.SetMetricsRecorder(metrics)

	first, err := g.FetchByCity(context.Background(), "Paris")
	require.NoError(t, err)
	second, err := g.FetchByCity(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, *first, *second)
	assert.Equal(t, 2, metrics.lookups["synthetic"])
	assert.Empty(t, metrics.calls)
}

func TestFetchByCity_SyntheticLondon(t *testing.T) {
	res, err := newSyntheticGateway(t).FetchByCity(context.Background(), "london")
	require.NoError(t, err)

	assert.Equal(t, "London", res.Weather.City)
	assert.Equal(t, "Demo", res.Weather.Country)
	assert.Equal(t, syntheticConditions[Seed("london")%4], res.Weather.Condition)
	assert.Equal(t, classify.AirQuality(float64(res.AQI.Value)).Level, res.AQI.Level)
}

func TestFetchByCoords_Synthetic(t *testing.T) {
	res, err := newSyntheticGateway(t).FetchByCoords(context.Background(), model.Coordinates{Lat: 1, Lon: 2})
	require.NoError(t, err)

	assert.Equal(t, "Your Location", res.Weather.City)
	assert.Equal(t, Synthetic("Your Location"), *res)
}

func TestFetchByCity_Live(t *testing.T) {
	fake := newFakeOWM()
	g := newLiveGateway(t, fake, daytime())
	metrics := newRecordingMetrics()
	g.SetMetricsRecorder(metrics)

	res, err := g.FetchByCity(context.Background(), "london")
	require.NoError(t, err)

	assert.Equal(t, []string{"weather", "air_pollution"}, fake.Calls())
	assert.Equal(t, "london", fake.lastCityQuery)

	w := res.Weather
	assert.Equal(t, "London", w.City)
	assert.Equal(t, "GB", w.Country)
	assert.Equal(t, 12, w.Temperature)
	assert.Equal(t, -2, w.FeelsLike)
	assert.Equal(t, 81, w.Humidity)
	assert.Equal(t, 36, w.WindSpeed)
	assert.Equal(t, classify.Rainy, w.Condition)
	assert.Equal(t, "moderate rain", w.Description)

	assert.Equal(t, 100, res.AQI.Value)
	assert.Equal(t, classify.Moderate, res.AQI.Level)
	assert.Equal(t, "Moderate", res.AQI.Label)

	assert.Equal(t, 1, metrics.lookups["live"])
	assert.Equal(t, 1, metrics.calls["weather"])
	assert.Equal(t, 1, metrics.calls["air_pollution"])
}

func TestFetchByCity_NightOverridesRain(t *testing.T) {
	g := newLiveGateway(t, newFakeOWM(), time.Unix(sunset+60, 0))

	res, err := g.FetchByCity(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, classify.ClearNight, res.Weather.Condition)
}

func TestFetchByCity_CityNotFound(t *testing.T) {
	fake := newFakeOWM()
	fake.weatherStatus = http.StatusNotFound
	fake.weatherBody = `{"cod":"404","message":"city not found"}`

	_, err := newLiveGateway(t, fake, daytime()).FetchByCity(context.Background(), "Atlantis")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrCityNotFound))
	assert.Contains(t, err.Error(), "check the spelling")
	assert.Equal(t, []string{"weather"}, fake.Calls())
}

func TestFetchByCity_ProviderUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusBadGateway} {
		fake := newFakeOWM()
		fake.weatherStatus = status

		_, err := newLiveGateway(t, fake, daytime()).FetchByCity(context.Background(), "London")
		assert.True(t, errors.Is(err, ErrProviderUnavailable), "status %d", status)
	}
}

func TestFetchByCity_MalformedPayloadIsUnexpected(t *testing.T) {
	fake := newFakeOWM()
	fake.weatherBody = `{"name": "London", "weather": "oops"}`

	_, err := newLiveGateway(t, fake, daytime()).FetchByCity(context.Background(), "London")
	assert.True(t, errors.Is(err, ErrUnexpected))
}

func TestFetchByCity_NoConditionIsUnexpected(t *testing.T) {
	fake := newFakeOWM()
	fake.weatherBody = `{"name": "London", "weather": []}`

	_, err := newLiveGateway(t, fake, daytime()).FetchByCity(context.Background(), "London")
	assert.True(t, errors.Is(err, ErrUnexpected))
}

func TestFetchByCity_TransportFailureIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, err := NewGateway(config.ProviderConfig{BaseURL: url, APIKey: "key", Timeout: 1}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	_, err = g.FetchByCity(context.Background(), "London")
	assert.True(t, errors.Is(err, ErrUnexpected))
}

func TestFetchByCity_AQIFailureFallsBackToDefault(t *testing.T) {
	fake := newFakeOWM()
	fake.aqiStatus = http.StatusInternalServerError
	g := newLiveGateway(t, fake, daytime())
	metrics := newRecordingMetrics()
	g.SetMetricsRecorder(metrics)

	res, err := g.FetchByCity(context.Background(), "London")
	require.NoError(t, err)

	// 50 is the upper bound of the good band
	assert.Equal(t, DefaultAQI, res.AQI.Value)
	assert.Equal(t, classify.Good, res.AQI.Level)
	assert.Equal(t, "Good", res.AQI.Label)
	assert.Equal(t, 1, metrics.errors["air_pollution"])
}

func TestFetchByCity_AQIUnusableReading(t *testing.T) {
	for _, body := range []string{`{"list": []}`, `{"list": [{"main": {"aqi": 9}}]}`, `garbage`} {
		fake := newFakeOWM()
		fake.aqiBody = body

		res, err := newLiveGateway(t, fake, daytime()).FetchByCity(context.Background(), "London")
		require.NoError(t, err, body)
		assert.Equal(t, 50, res.AQI.Value, body)
		assert.Equal(t, classify.Good, res.AQI.Level, body)
	}
}

func TestFetchByCoords_Live(t *testing.T) {
	fake := newFakeOWM()
	fake.reverseBody = `{"name": "Camden Town", "sys": {"country": "GB"}}`

	res, err := newLiveGateway(t, fake, daytime()).FetchByCoords(context.Background(), model.Coordinates{Lat: 51.54, Lon: -0.14})
	require.NoError(t, err)

	assert.Equal(t, []string{"reverse", "weather", "air_pollution"}, fake.Calls())
	assert.Equal(t, "Camden Town", fake.lastCityQuery)
	assert.Equal(t, "London", res.Weather.City)
}

func TestFetchByCoords_ReverseLookupFails(t *testing.T) {
	fake := newFakeOWM()
	fake.reverseStatus = http.StatusBadRequest

	_, err := newLiveGateway(t, fake, daytime()).FetchByCoords(context.Background(), model.Coordinates{Lat: 999, Lon: 999})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrLocationUnavailable))
	assert.Equal(t, "Unable to fetch weather for your location.", err.Error())
	assert.Equal(t, []string{"reverse"}, fake.Calls())
}

func TestFetchByCoords_NoPlaceName(t *testing.T) {
	fake := newFakeOWM()
	fake.reverseBody = `{"name": ""}`

	_, err := newLiveGateway(t, fake, daytime()).FetchByCoords(context.Background(), model.Coordinates{})
	assert.True(t, errors.Is(err, ErrLocationUnavailable))
}

func TestFetchByCoords_PropagatesCityErrors(t *testing.T) {
	fake := newFakeOWM()
	fake.weatherStatus = http.StatusServiceUnavailable

	_, err := newLiveGateway(t, fake, daytime()).FetchByCoords(context.Background(), model.Coordinates{Lat: 1, Lon: 1})
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestAQIFromIndex(t *testing.T) {
	expected := map[int]int{1: 25, 2: 50, 3: 100, 4: 150, 5: 200, 0: 50, 6: 50, -1: 50}
	for index, want := range expected {
		assert.Equal(t, want, AQIFromIndex(index), "index %d", index)
	}
}

func TestIsNight(t *testing.T) {
	rise := time.Unix(sunrise, 0)
	set := time.Unix(sunset, 0)

	assert.True(t, IsNight(rise.Add(-time.Second), rise, set))
	assert.False(t, IsNight(rise, rise, set))
	assert.False(t, IsNight(rise.Add(time.Hour), rise, set))
	assert.False(t, IsNight(set, rise, set))
	assert.True(t, IsNight(set.Add(time.Second), rise, set))
}

func TestRound(t *testing.T) {
	cases := map[float64]int{
		0.4:  0,
		0.5:  1,
		2.5:  3,
		-2.5: -2,
		-2.6: -3,
		36:   36,
	}
	for in, want := range cases {
		assert.Equal(t, want, round(in), "round(%v)", in)
	}
}

func TestRequestLoggerUsesRequestID(t *testing.T) {
	g := newSyntheticGateway(t)
	ctx := context.WithValue(context.Background(), RequestIDKey{}, "req-1")

	assert.NotSame(t, g.logger, g.requestLogger(ctx))
	assert.Same(t, g.logger, g.requestLogger(context.Background()))
}
