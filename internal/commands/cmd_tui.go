package commands

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	app := cmd.flags.App

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Watch(ctx); err != nil {
			log.Error().Err(err).Msg("storage watch stopped")
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	return tui.Run(ctx, app, tui.Options{
		AlertOnStart:    app.Config.Inventory.AlertOnStart && !cmd.flags.NoScan,
		RefreshInterval: app.Config.TUI.RefreshInterval,
	})
}
