package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
	"github.com/Dharmiksheth/seamless-business-mosaic/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags

	jsonOutput bool
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(flags *Flags) *SettingsCmd {
	return &SettingsCmd{flags: flags}
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "settings",
		Usage: "View and change application settings",
		Description: `Settings are grouped in sections: general, company, users and advanced.
Saving a section raises a system notification.`,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print settings",
				UsageText: "mosaic settings show [section] [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "save",
				Usage:     "Save settings from key=value pairs",
				UsageText: "mosaic settings save <section> key=value [key=value...]",
				Description: `Example:
  mosaic settings save company name="Acme Corp" email=billing@acme.test`,
				Action: cmd.runSave,
			},
			{
				Name:      "edit",
				Usage:     "Edit a section interactively",
				UsageText: "mosaic settings edit <section>",
				Action:    cmd.runEdit,
			},
		},
	})

	return app
}

func (cmd *SettingsCmd) runShow(ctx context.Context, c *cli.Command) error {
	sections := erp.Sections
	if arg := c.Args().First(); arg != "" {
		sec, err := erp.ParseSection(arg)
		if err != nil {
			return err
		}
		sections = []erp.Section{sec}
	}

	all := make(map[erp.Section]erp.Settings, len(sections))
	for _, sec := range sections {
		vals, err := cmd.flags.App.Settings.Get(ctx, sec)
		if err != nil {
			return err
		}
		all[sec] = vals
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, all)
	}

	p := newPrinter(out)
	for i, sec := range sections {
		if i > 0 {
			p.Printf("")
		}
		p.Header(sec.Title())
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, k := range erp.Keys(sec) {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", k, all[sec][k])
		}
		_ = w.Flush()
	}
	return nil
}

func (cmd *SettingsCmd) runSave(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}

	sec, err := erp.ParseSection(args[0])
	if err != nil {
		return err
	}
	values, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	if _, err := cmd.flags.App.Settings.Save(ctx, sec, values); err != nil {
		return err
	}
	newPrinter(c.Root().Writer).Successf("%s settings saved", sec.Title())
	return nil
}

func parseAssignments(args []string) (erp.Settings, error) {
	values := make(erp.Settings, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", a)
		}
		values[strings.TrimSpace(k)] = v
	}
	return values, nil
}

func (cmd *SettingsCmd) runEdit(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("settings edit needs a terminal; use 'mosaic settings save' instead")
	}

	sec, err := erp.ParseSection(c.Args().First())
	if err != nil {
		return err
	}
	current, err := cmd.flags.App.Settings.Get(ctx, sec)
	if err != nil {
		return err
	}

	keys := erp.Keys(sec)
	values := make([]string, len(keys))
	fields := make([]huh.Field, len(keys))
	for i, k := range keys {
		values[i] = current[k]
		if choices := erp.Choices(k); choices != nil {
			fields[i] = huh.NewSelect[string]().
				Title(k).
				Options(huh.NewOptions(choices...)...).
				Value(&values[i])
			continue
		}
		fields[i] = huh.NewInput().
			Title(k).
			Value(&values[i])
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title(sec.Title() + " settings"))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	changed := erp.Settings{}
	for i, k := range keys {
		if values[i] != current[k] {
			changed[k] = values[i]
		}
	}
	p := newPrinter(c.Root().Writer)
	if len(changed) == 0 {
		p.Infof("No changes")
		return nil
	}

	if _, err := cmd.flags.App.Settings.Save(ctx, sec, changed); err != nil {
		return err
	}
	p.Successf("%s settings saved", sec.Title())
	return nil
}
