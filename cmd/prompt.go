package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/locate"
	"github.com/vzahanych/weather-lookup/internal/model"
	"github.com/vzahanych/weather-lookup/internal/session"
	"go.uber.org/zap"
)

const promptHelp = `Type a city name to look it up.
  :here   weather at your approximate position
  :retry  repeat the last city search
  :quit   exit`

func promptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Interactive lookup session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			gw, err := gateway.NewGateway(cfg.Provider, log.Logger, tele)
			if err != nil {
				return err
			}

			sess := session.New(gw, locate.FromConfig(cfg.Locator, log.Logger), log.Logger)
			return runPrompt(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), sess, gw.Mode(), log.Logger)
		},
	}
}

func runPrompt(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, mode gateway.Mode, logger *zap.Logger) error {
	fmt.Fprintln(out, promptHelp)
	if mode == gateway.ModeSynthetic {
		fmt.Fprintln(out, demoFooter)
	}

	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(out, "> ")

		var raw string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			raw = l
		}

		line := strings.TrimSpace(raw)

		var (
			res *model.WeatherResult
			err error
		)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(out, promptHelp)
			continue
		case ":here":
			res, err = sess.UseLocation(ctx)
		case ":retry":
			res, err = sess.Retry(ctx)
			if err == nil && res == nil {
				fmt.Fprintln(out, "Nothing to retry yet.")
				continue
			}
		default:
			res, err = sess.Search(ctx, line)
		}

		switch {
		case errors.Is(err, session.ErrBusy):
			fmt.Fprintln(out, err)
		case err != nil:
			renderError(out, err)
			if sess.LastQuery() != "" {
				fmt.Fprintln(out, "Type :retry to try again.")
			}
		default:
			renderCard(out, res, mode)
		}

		logger.Debug("Prompt state", zap.String("state", string(sess.State())))
	}
}

// readLines feeds lines from in until EOF or ctx is done. The reader stays
// blocked on in after cancellation; for stdin that ends with the process.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
