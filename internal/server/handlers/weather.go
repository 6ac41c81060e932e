package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/classify"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/model"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// WeatherFetcher is the gateway as seen by the handlers.
type WeatherFetcher interface {
	FetchByCity(ctx context.Context, city string) (*model.WeatherResult, error)
	FetchByCoords(ctx context.Context, coords model.Coordinates) (*model.WeatherResult, error)
	Mode() gateway.Mode
}

type WeatherHandler struct {
	gateway WeatherFetcher
	logger  *zap.Logger
}

func NewWeatherHandler(gw WeatherFetcher, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		gateway: gw,
		logger:  logger,
	}
}

func (h *WeatherHandler) GetWeatherByCity(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req CityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.invalid(c, reqLogger, err.Error(), nil)
		return
	}

	// trimming belongs to the input boundary, not the gateway
	req.City = strings.TrimSpace(req.City)
	if verrs := utils.ValidateStruct(req); verrs != nil {
		h.invalid(c, reqLogger, "", verrs)
		return
	}

	utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("lookup.city", req.City))
	reqLogger.Info("Processing weather request", zap.String("city", req.City))

	res, err := h.gateway.FetchByCity(ctx, req.City)
	if err != nil {
		h.fail(c, reqLogger, err)
		return
	}

	h.respond(c, reqLogger, res)
}

func (h *WeatherHandler) GetWeatherByCoords(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req CoordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.invalid(c, reqLogger, err.Error(), nil)
		return
	}
	if verrs := utils.ValidateStruct(req); verrs != nil {
		h.invalid(c, reqLogger, "", verrs)
		return
	}

	coords := model.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	utils.GetSpanFromGinContext(c).SetAttributes(
		attribute.Float64("lookup.lat", coords.Lat),
		attribute.Float64("lookup.lon", coords.Lon),
	)
	reqLogger.Info("Processing weather request",
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon))

	res, err := h.gateway.FetchByCoords(ctx, coords)
	if err != nil {
		h.fail(c, reqLogger, err)
		return
	}

	h.respond(c, reqLogger, res)
}

func (h *WeatherHandler) GetAdvisory(c *gin.Context) {
	req := AdvisoryRequest{Level: strings.ToLower(c.Param("level"))}
	if verrs := utils.ValidateStruct(req); verrs != nil {
		h.invalid(c, h.logger, "", verrs)
		return
	}

	level := classify.Level(req.Level)
	c.JSON(http.StatusOK, AdvisoryResponse{
		Level:    string(level),
		Label:    level.Label(),
		Advisory: classify.HealthAdvisory(level),
	})
}

func (h *WeatherHandler) respond(c *gin.Context, logger *zap.Logger, res *model.WeatherResult) {
	logger.Info("Weather request completed successfully",
		zap.String("city", res.Weather.City),
		zap.String("condition", string(res.Weather.Condition)))

	c.JSON(http.StatusOK, WeatherResponse{
		Weather:  res.Weather,
		AQI:      res.AQI,
		Advisory: classify.HealthAdvisory(res.AQI.Level),
		Mode:     string(h.gateway.Mode()),
	})
}

func (h *WeatherHandler) invalid(c *gin.Context, logger *zap.Logger, details string, fields []utils.ValidationError) {
	logger.Warn("Invalid request parameters",
		zap.String("details", details),
		zap.Int("field_errors", len(fields)))

	c.Set(middlewares.ErrorCodeKey, "INVALID_PARAMS")
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request parameters",
		Code:    "INVALID_PARAMS",
		Details: details,
		Fields:  fields,
	})
}

func (h *WeatherHandler) fail(c *gin.Context, logger *zap.Logger, err error) {
	ge := gateway.AsError(err)
	code := gateway.Code(ge)

	logger.Warn("Failed to get weather data",
		zap.String("code", code),
		zap.NamedError("cause", ge.Err))

	c.Set(middlewares.ErrorCodeKey, code)
	_ = c.Error(err)
	c.JSON(StatusFor(ge), ErrorResponse{
		Error: ge.Message,
		Code:  code,
	})
}

// StatusFor maps an error kind to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch gateway.KindOf(err) {
	case gateway.ErrCityNotFound:
		return http.StatusNotFound
	case gateway.ErrProviderUnavailable, gateway.ErrLocationUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
