package gateway

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/model"
)

const (
	SyntheticCountry = "Demo"
	LocationLabel    = "Your Location"
)

var syntheticConditions = []classify.Condition{
	classify.ClearDay,
	classify.Cloudy,
	classify.Rainy,
	classify.Stormy,
}

var syntheticDescriptions = map[classify.Condition]string{
	classify.ClearDay: "Clear sky",
	classify.Cloudy:   "Partly cloudy",
	classify.Rainy:    "Light rain",
	classify.Stormy:   "Thunderstorm",
}

// Seed sums the UTF-16 code units of the lower-cased name. Existing demo
// snapshots depend on these exact values.
func Seed(name string) int {
	seed := 0
	for _, u := range utf16.Encode([]rune(strings.ToLower(name))) {
		seed += int(u)
	}
	return seed
}

// Synthetic derives a placeholder result from city. It is deterministic and
// never touches the network.
func Synthetic(city string) model.WeatherResult {
	seed := Seed(city)
	condition := syntheticConditions[seed%len(syntheticConditions)]

	return model.WeatherResult{
		Weather: model.WeatherSnapshot{
			City:        capitalize(city),
			Country:     SyntheticCountry,
			Temperature: 15 + seed%20,
			Humidity:    40 + seed%40,
			Condition:   condition,
			Description: syntheticDescriptions[condition],
			FeelsLike:   13 + seed%20,
			WindSpeed:   5 + seed%25,
		},
		AQI: model.NewAirQuality(20 + seed%150),
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
