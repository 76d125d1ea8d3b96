package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/overlog/overlog/cmd/overlog/app"
)

const usage = `Usage: overlog <command> [flags]

Commands:
  parse    Parse a telemetry file into the normalized JSON form
  render   Render telemetry into a transparent overlay video
  burn     Composite a rendered overlay onto a source video

Run 'overlog <command> -h' for command flags.
`

func main() {
	// Logs go to stderr: parse writes its document to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "parse":
		var config *app.ParseConfig
		if config, err = app.NewParseConfigFromCLI(args); err == nil {
			err = app.RunParse(ctx, config, logger)
		}

	case "render":
		var config *app.RenderConfig
		if config, err = app.NewRenderConfigFromCLI(args); err == nil {
			err = app.RunRender(ctx, config, logger)
		}

	case "burn":
		var config *app.BurnConfig
		if config, err = app.NewBurnConfigFromCLI(args); err == nil {
			err = app.RunBurn(ctx, config, logger)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
