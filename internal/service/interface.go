package service

import (
	"context"
	"fmt"
)

// WeatherProvider is the upstream weather/air-quality API.
type WeatherProvider interface {
	CurrentByCity(ctx context.Context, city string) (*CurrentWeather, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*CurrentWeather, error)
	AirPollution(ctx context.Context, lat, lon float64) (*AirPollution, error)
	Name() string
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status: %d", e.Endpoint, e.StatusCode)
}

// CurrentWeather mirrors the fields of the provider's current weather payload
// that lookups depend on. Units are metric.
type CurrentWeather struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

// AirPollution mirrors the provider's air pollution payload. Main.AQI is the
// coarse 1-5 index.
type AirPollution struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Dt int64 `json:"dt"`
	} `json:"list"`
}

// Index returns the first reading's coarse index, or false when there is none.
func (a *AirPollution) Index() (int, bool) {
	if a == nil || len(a.List) == 0 || a.List[0].Main.AQI == 0 {
		return 0, false
	}
	return a.List[0].Main.AQI, true
}
