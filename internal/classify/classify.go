package classify

import "strings"

// Condition is the visual weather category shown for a location.
type Condition string

const (
	ClearDay   Condition = "clear-day"
	ClearNight Condition = "clear-night"
	Cloudy     Condition = "cloudy"
	Rainy      Condition = "rainy"
	Stormy     Condition = "stormy"
)

// Level is the air quality severity derived from an AQI value.
type Level string

const (
	Good     Level = "good"
	Moderate Level = "moderate"
	Poor     Level = "poor"
)

// Severity pairs a Level with its display label.
type Severity struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
}

const clearSkyCode = 800

// WeatherCondition maps an OpenWeatherMap condition code to a Condition.
// At night every code below clear sky renders as clear-night.
func WeatherCondition(code int, isNight bool) Condition {
	if isNight && code < clearSkyCode {
		return ClearNight
	}

	switch {
	case code >= 200 && code < 300:
		return Stormy
	case code >= 300 && code < 600:
		return Rainy
	case code >= 600 && code < 700:
		// snow has no dedicated visual
		return Cloudy
	case code >= 700 && code < 800:
		return Cloudy
	case code == clearSkyCode:
		if isNight {
			return ClearNight
		}
		return ClearDay
	case code > clearSkyCode:
		return Cloudy
	}

	return ClearDay
}

// AirQuality classifies an AQI value on the 0-500 scale.
func AirQuality(aqi float64) Severity {
	switch {
	case aqi <= 50:
		return Severity{Level: Good, Label: Good.Label()}
	case aqi <= 100:
		return Severity{Level: Moderate, Label: Moderate.Label()}
	default:
		return Severity{Level: Poor, Label: Poor.Label()}
	}
}

// Label returns the capitalized level name.
func (l Level) Label() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case Good, Moderate, Poor:
		return true
	}
	return false
}

// ParseLevel accepts a level name in any letter case.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

var advisories = map[Level]string{
	Good:     "Air quality is excellent. Perfect for outdoor activities!",
	Moderate: "Air quality is acceptable. Sensitive individuals should limit prolonged outdoor exposure.",
	Poor:     "Air quality is poor. Consider wearing a mask outdoors and limit physical activities.",
}

// HealthAdvisory returns the fixed health tip for a level.
func HealthAdvisory(level Level) string {
	return advisories[level]
}
