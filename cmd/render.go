package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/model"
)

const demoFooter = "Demo mode • Add an OpenWeatherMap API key for live data"

var conditionLabels = map[classify.Condition]string{
	classify.ClearDay:   "Clear",
	classify.ClearNight: "Clear night",
	classify.Cloudy:     "Cloudy",
	classify.Rainy:      "Rain",
	classify.Stormy:     "Thunderstorm",
}

// renderCard prints a result the way the terminal views show it.
func renderCard(w io.Writer, res *model.WeatherResult, mode gateway.Mode) {
	wx := res.Weather

	fmt.Fprintf(w, "%s, %s\n", wx.City, wx.Country)
	fmt.Fprintf(w, "  %-12s %s (%s)\n", "Condition", conditionLabels[wx.Condition], wx.Description)
	fmt.Fprintf(w, "  %-12s %d°C, feels like %d°C\n", "Temperature", wx.Temperature, wx.FeelsLike)
	fmt.Fprintf(w, "  %-12s %d%%\n", "Humidity", wx.Humidity)
	fmt.Fprintf(w, "  %-12s %d km/h\n", "Wind", wx.WindSpeed)
	fmt.Fprintf(w, "  %-12s %d (%s)\n", "Air quality", res.AQI.Value, res.AQI.Label)
	fmt.Fprintf(w, "  %s\n", classify.HealthAdvisory(res.AQI.Level))

	if mode == gateway.ModeSynthetic {
		fmt.Fprintf(w, "\n%s\n", demoFooter)
	}
}

func renderError(w io.Writer, err error) {
	ge := gateway.AsError(err)
	fmt.Fprintf(w, "Error [%s]: %s\n", gateway.Code(ge), ge.Message)
}

type jsonResult struct {
	Weather  model.WeatherSnapshot    `json:"weather"`
	AQI      model.AirQualitySnapshot `json:"aqi"`
	Advisory string                   `json:"advisory"`
	Mode     gateway.Mode             `json:"mode"`
}

func renderJSON(w io.Writer, res *model.WeatherResult, mode gateway.Mode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		Weather:  res.Weather,
		AQI:      res.AQI,
		Advisory: classify.HealthAdvisory(res.AQI.Level),
		Mode:     mode,
	})
}
