package handlers

import (
	"github.com/vzahanych/weather-lookup/internal/model"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
)

// CityRequest is the query of GET /weather
type CityRequest struct {
	City string `form:"city" json:"city" validate:"required,min=1,max=100,cityname"`
}

// CoordsRequest is the query of GET /weather/coords. Pointers tell a missing
// value apart from 0.
type CoordsRequest struct {
	Lat *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lon *float64 `form:"lon" json:"lon" validate:"required,longitude"`
}

type AdvisoryRequest struct {
	Level string `uri:"level" json:"level" validate:"required,oneof=good moderate poor"`
}

// WeatherResponse is a successful lookup together with its health advisory.
type WeatherResponse struct {
	Weather  model.WeatherSnapshot    `json:"weather"`
	AQI      model.AirQualitySnapshot `json:"aqi"`
	Advisory string                   `json:"advisory"`
	Mode     string                   `json:"mode"`
}

type AdvisoryResponse struct {
	Level    string `json:"level"`
	Label    string `json:"label"`
	Advisory string `json:"advisory"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details string                  `json:"details,omitempty"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Mode      string `json:"mode,omitempty"`
}
