package model

import "github.com/vzahanych/weather-lookup/internal/classify"

// WeatherSnapshot is the normalized current weather for one place.
// Temperatures are °C and wind speed is km/h, all rounded to whole units.
type WeatherSnapshot struct {
	City        string             `json:"city"`
	Country     string             `json:"country"`
	Temperature int                `json:"temperature"`
	Humidity    int                `json:"humidity"`
	Condition   classify.Condition `json:"condition"`
	Description string             `json:"description"`
	FeelsLike   int                `json:"feels_like"`
	WindSpeed   int                `json:"wind_speed"`
}

// AirQualitySnapshot is an AQI value on the 0-500 scale with its severity.
type AirQualitySnapshot struct {
	Value int            `json:"value"`
	Level classify.Level `json:"level"`
	Label string         `json:"label"`
}

// WeatherResult is the unit of a successful lookup.
type WeatherResult struct {
	Weather WeatherSnapshot    `json:"weather"`
	AQI     AirQualitySnapshot `json:"aqi"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewAirQuality classifies value and builds the snapshot.
func NewAirQuality(value int) AirQualitySnapshot {
	sev := classify.AirQuality(float64(value))
	return AirQualitySnapshot{
		Value: value,
		Level: sev.Level,
		Label: sev.Label,
	}
}
