package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/commands"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/config"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
	"github.com/Dharmiksheth/seamless-business-mosaic/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// A missing .env is normal; values already in the environment win.
	_ = godotenv.Load()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "mosaic",
		Usage:     "Run the business dashboard and its notification centre",
		UsageText: "mosaic [global options] command [command options]",
		Description: `Mosaic is a small ERP dashboard: products, orders, customers, employees
and tasks, with a notification centre that every surface shares.

Run 'mosaic' with no arguments to open the interactive dashboard.
Run 'mosaic serve' to expose the same data over HTTP.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MOSAIC_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/mosaic.log)",
				Sources:     cli.EnvVars("MOSAIC_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MOSAIC_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("MOSAIC_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "storage backend override (json, sqlite)",
				Sources:     cli.EnvVars("MOSAIC_BACKEND"),
				Destination: &flags.Backend,
			},
			&cli.BoolFlag{
				Name:        "no-scan",
				Usage:       "skip the startup low-stock scan",
				Sources:     cli.EnvVars("MOSAIC_NO_SCAN"),
				Destination: &flags.NoScan,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/mosaic.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "mosaic.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.Backend != "" {
				cfg.Storage.Backend = flags.Backend
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid config: %w", err)
				}
			}
			flags.Config = cfg

			// Validation guarantees the theme name is known.
			styles.UseTheme(cfg.TUI.Theme)

			flags.App, err = erp.Open(ctx, cfg, erp.Options{})
			if err != nil {
				return ctx, fmt.Errorf("open storage: %w", err)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var err error
			if flags.App != nil {
				if err = flags.App.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close app")
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return err
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewNotifyCmd(flags).Register(app)
	app = commands.NewCatalogCmd(flags).Register(app)
	app = commands.NewDashboardCmd(flags).Register(app)
	app = commands.NewSettingsCmd(flags).Register(app)
	app = commands.NewServeCmd(flags, version).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'mosaic --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
