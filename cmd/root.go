package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Current weather and air quality lookup",
		Long: `Looks up current conditions and air quality for a city or a position.
Without a provider API key every lookup is answered with deterministic demo data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serverCmd())
	cmd.AddCommand(lookupCmd())
	cmd.AddCommand(promptCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return execute(ctx, os.Args[1:])
}

// execute runs the command tree and flushes telemetry and logs even when the
// command fails; cobra skips post-run hooks on error.
func execute(ctx context.Context, args []string) error {
	defer shutdownServices()

	root := rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// kept in an atomic so it can be swapped at runtime
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn("Failed to initialize telemetry, continuing without it", zap.Error(err))
		tele = &telemetry.Telemetry{}
	}

	return nil
}

func shutdownServices() {
	if log == nil {
		return
	}

	if err := tele.Shutdown(context.Background()); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}
	log.Debug("Services shut down")
	_ = log.Sync()
}
