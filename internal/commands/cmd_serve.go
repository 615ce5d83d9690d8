package commands

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/api"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
)

type ServeCmd struct {
	flags   *Flags
	version string

	addr  string
	pprof bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, version string) *ServeCmd {
	return &ServeCmd{flags: flags, version: version}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the HTTP API",
		UsageText: "mosaic serve [--addr 127.0.0.1:7420] [--pprof]",
		Description: `Serves notifications and business data as JSON under /api and streams
notification state over a websocket at /api/notifications/ws.

Changes made by other mosaic processes are picked up and pushed to
connected clients.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr from config)",
				Sources:     cli.EnvVars("MOSAIC_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "expose net/http/pprof under /debug",
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithSurface(ctx, logging.SurfaceAPI)

	app := cmd.flags.App
	addr := cmd.addr
	if addr == "" {
		addr = app.Config.Server.Addr
	}

	srv := api.New(app, cmd.version)
	defer srv.Close()
	if cmd.pprof {
		srv.MountProfiler()
		log.Info().Str("url", fmt.Sprintf("http://%s/debug/pprof/", addr)).Msg("profiler endpoint available")
	}

	if app.Config.Inventory.AlertOnStart && !cmd.flags.NoScan {
		if _, err := app.Stock.Scan(ctx); err != nil {
			log.Warn().Err(err).Msg("startup inventory scan failed")
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Watch(ctx); err != nil {
			log.Error().Err(err).Msg("storage watch stopped")
		}
	}()

	err := srv.ListenAndServe(ctx, addr)
	stop()
	wg.Wait()
	return err
}
