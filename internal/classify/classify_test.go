package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeatherCondition_DayRanges(t *testing.T) {
	cases := []struct {
		from, to int
		want     Condition
	}{
		{200, 299, Stormy},
		{300, 599, Rainy},
		{600, 699, Cloudy},
		{700, 799, Cloudy},
		{801, 899, Cloudy},
	}

	for _, tc := range cases {
		for code := tc.from; code <= tc.to; code++ {
			if got := WeatherCondition(code, false); got != tc.want {
				t.Fatalf("code %d: expected %s, got %s", code, tc.want, got)
			}
		}
	}
}

func TestWeatherCondition_ClearSky(t *testing.T) {
	assert.Equal(t, ClearDay, WeatherCondition(800, false))
	assert.Equal(t, ClearNight, WeatherCondition(800, true))
}

func TestWeatherCondition_NightOverridesSubClearCodes(t *testing.T) {
	for code := -10; code < 800; code++ {
		if got := WeatherCondition(code, true); got != ClearNight {
			t.Fatalf("code %d at night: expected clear-night, got %s", code, got)
		}
	}

	assert.Equal(t, Cloudy, WeatherCondition(804, true))
}

func TestWeatherCondition_UnknownCodesDefaultToClearDay(t *testing.T) {
	for _, code := range []int{-1, 0, 100, 199} {
		assert.Equal(t, ClearDay, WeatherCondition(code, false), "code %d", code)
	}
}

func TestAirQuality_Levels(t *testing.T) {
	cases := []struct {
		aqi  float64
		want Level
	}{
		{-20, Good},
		{0, Good},
		{50, Good},
		{50.5, Moderate},
		{51, Moderate},
		{100, Moderate},
		{101, Poor},
		{500, Poor},
		{9000, Poor},
	}

	for _, tc := range cases {
		got := AirQuality(tc.aqi)
		assert.Equal(t, tc.want, got.Level, "aqi %v", tc.aqi)
		assert.Equal(t, tc.want.Label(), got.Label, "aqi %v", tc.aqi)
	}
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Good", Good.Label())
	assert.Equal(t, "Moderate", Moderate.Label())
	assert.Equal(t, "Poor", Poor.Label())
	assert.Equal(t, "", Level("").Label())
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel(" Moderate ")
	assert.True(t, ok)
	assert.Equal(t, Moderate, l)

	_, ok = ParseLevel("hazardous")
	assert.False(t, ok)
}

func TestHealthAdvisory(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range []Level{Good, Moderate, Poor} {
		tip := HealthAdvisory(l)
		assert.NotEmpty(t, tip)
		assert.False(t, seen[tip], "advisory for %s is not distinct", l)
		seen[tip] = true
	}

	assert.Contains(t, HealthAdvisory(Poor), "mask")
}
