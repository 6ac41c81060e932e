package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/locate"
	"github.com/vzahanych/weather-lookup/internal/model"
	"go.uber.org/zap"
)

type lookupOptions struct {
	city   string
	lat    float64
	lon    float64
	here   bool
	asJSON bool
}

func lookupCmd() *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the current weather for a city or position",
		Example: `  weather lookup --city London
  weather lookup --lat 51.5 --lon -0.12 --json
  weather lookup --locate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "city name")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in degrees")
	cmd.Flags().BoolVar(&opts.here, "locate", false, "use the approximate position of this machine")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")

	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("city", "lat", "locate")
	cmd.MarkFlagsMutuallyExclusive("city", "lon", "locate")
	cmd.MarkFlagsOneRequired("city", "lat", "locate")

	return cmd
}

func runLookup(cmd *cobra.Command, opts *lookupOptions) error {
	cfg := config.GetConfig()
	ctx := cmd.Context()

	city := strings.TrimSpace(opts.city)
	if cmd.Flags().Changed("city") && city == "" {
		return errors.New("--city must not be blank")
	}

	gw, err := gateway.NewGateway(cfg.Provider, log.Logger, tele)
	if err != nil {
		return err
	}

	var res *model.WeatherResult
	switch {
	case opts.here:
		locator := locate.FromConfig(cfg.Locator, log.Logger)
		if locator == nil {
			err = gateway.NewError(gateway.ErrGeolocationUnsupported, nil)
			break
		}
		var coords model.Coordinates
		if coords, err = locator.Locate(ctx); err == nil {
			res, err = gw.FetchByCoords(ctx, coords)
		}
	case cmd.Flags().Changed("lat"):
		res, err = gw.FetchByCoords(ctx, model.Coordinates{Lat: opts.lat, Lon: opts.lon})
	default:
		res, err = gw.FetchByCity(ctx, city)
	}

	out := cmd.OutOrStdout()
	if err != nil {
		log.Debug("Lookup failed", zap.Error(err))
		renderError(cmd.ErrOrStderr(), err)
		return err
	}

	if opts.asJSON {
		return renderJSON(out, res, gw.Mode())
	}
	renderCard(out, res, gw.Mode())
	return nil
}
