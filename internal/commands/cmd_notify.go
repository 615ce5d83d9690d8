package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/pkg/iojson"
)

type NotifyCmd struct {
	flags *Flags

	jsonOutput bool
	unreadOnly bool

	// add flags
	title   string
	message string
	kind    string
	input   iojson.FileReader[notify.Input]

	// emit flags
	details string
}

// NewNotifyCmd creates a new notify command
func NewNotifyCmd(flags *Flags) *NotifyCmd {
	return &NotifyCmd{flags: flags}
}

// Register adds the notify command to the application
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "notify",
		Aliases: []string{"n"},
		Usage:   "Inspect and manage notifications",
		Description: `Notification commands operate on the same store the dashboard and API use.

Changes made here show up in a running 'mosaic' dashboard or 'mosaic serve'
as soon as the storage file is written.`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.unreadCmd(),
			cmd.addCmd(),
			cmd.emitCmd(),
			{
				Name:      "watch",
				Usage:     "Stream the notification state as JSON lines",
				UsageText: "mosaic notify watch",
				Description: `Writes the current state, then one line per change until interrupted.
Changes from other processes are picked up through the storage watcher.`,
				Action: cmd.runWatch,
			},
			{
				Name:      "read",
				Usage:     "Mark a notification as read",
				UsageText: "mosaic notify read <id>",
				Action:    cmd.runRead,
			},
			{
				Name:      "read-all",
				Usage:     "Mark every notification as read",
				UsageText: "mosaic notify read-all",
				Action:    cmd.runReadAll,
			},
			{
				Name:      "rm",
				Usage:     "Remove a notification",
				UsageText: "mosaic notify rm <id>",
				Action:    cmd.runRemove,
			},
			{
				Name:      "clear",
				Usage:     "Remove every notification",
				UsageText: "mosaic notify clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotifyCmd) jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON",
		Destination: &cmd.jsonOutput,
	}
}

func (cmd *NotifyCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List notifications, newest first",
		UsageText: "mosaic notify list [--unread] [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "unread",
				Aliases:     []string{"u"},
				Usage:       "only show unread notifications",
				Destination: &cmd.unreadOnly,
			},
			cmd.jsonFlag(),
		},
		Action: cmd.runList,
	}
}

func (cmd *NotifyCmd) unreadCmd() *cli.Command {
	return &cli.Command{
		Name:      "unread",
		Usage:     "Print the unread count and bell badge",
		UsageText: "mosaic notify unread [--json]",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runUnread,
	}
}

func (cmd *NotifyCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a notification",
		UsageText: "mosaic notify add --title <title> --message <message> [--type info]",
		Description: `Adds a notification. Without --title the input is read as JSON from
--file or stdin, e.g.

  echo '{"title":"Backup done","message":"Nightly backup finished","type":"success"}' | mosaic notify add`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "notification title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Usage:       "notification message",
				Destination: &cmd.message,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "info, success, warning or error",
				Value:       string(notify.TypeInfo),
				Destination: &cmd.kind,
			},
			cmd.input.Flag(),
			cmd.jsonFlag(),
		},
		Action: cmd.runAdd,
	}
}

func (cmd *NotifyCmd) emitCmd() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "Raise a system event notification",
		UsageText: "mosaic notify emit <module> <action> <entity> [--details text]",
		Description: `Builds a notification from a business event the way the rest of the
application does. Modules: inventory, orders, customers, products, employees,
system. Actions: created, updated, deleted, alert, info.

Examples:
  mosaic notify emit orders created ORD-2023-005
  mosaic notify emit inventory alert "Desk Lamp" --details "Only 2 left"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "details",
				Aliases:     []string{"d"},
				Usage:       "message text (defaults to a generated sentence)",
				Destination: &cmd.details,
			},
			cmd.jsonFlag(),
		},
		Action: cmd.runEmit,
	}
}

func (cmd *NotifyCmd) runList(_ context.Context, c *cli.Command) error {
	st := cmd.flags.App.Notifications.Snapshot()
	list := st.Notifications
	if cmd.unreadOnly {
		list = unreadOnly(list)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, notify.State{Notifications: list, UnreadCount: st.UnreadCount})
	}

	if len(list) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "No notifications")
		return nil
	}

	writeNotificationTable(out, list, time.Now())
	return nil
}

func writeNotificationTable(out io.Writer, list []notify.Notification, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tTITLE\tWHEN")
	for _, n := range list {
		status := "read"
		if !n.Read {
			status = "unread"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, status, n.Title, notify.TimeAgo(n.CreatedAt, now))
	}
	_ = w.Flush()
}

func unreadOnly(list []notify.Notification) []notify.Notification {
	kept := make([]notify.Notification, 0, len(list))
	for _, n := range list {
		if !n.Read {
			kept = append(kept, n)
		}
	}
	return kept
}

func (cmd *NotifyCmd) runUnread(_ context.Context, c *cli.Command) error {
	count := cmd.flags.App.Notifications.UnreadCount()
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, struct {
			Unread int    `json:"unread"`
			Badge  string `json:"badge"`
		}{count, notify.Badge(count)})
	}

	_, _ = fmt.Fprintln(out, count)
	return nil
}

func (cmd *NotifyCmd) runAdd(ctx context.Context, c *cli.Command) error {
	in := notify.Input{Title: cmd.title, Message: cmd.message, Type: notify.Type(cmd.kind)}
	if cmd.title == "" {
		var err error
		in, err = cmd.input.Read()
		if err != nil {
			return err
		}
		if in.Type == "" {
			in.Type = notify.TypeInfo
		}
	}

	n, err := cmd.flags.App.Notifications.Add(ctx, in)
	if err != nil {
		return err
	}
	return cmd.printCreated(c, n)
}

func (cmd *NotifyCmd) runEmit(ctx context.Context, c *cli.Command) error {
	args := c.Args()
	if args.Len() != 3 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}

	n, err := cmd.flags.App.Notifier.Emit(ctx,
		notify.Module(args.Get(0)),
		notify.Action(args.Get(1)),
		args.Get(2),
		cmd.details,
	)
	if err != nil {
		return err
	}
	return cmd.printCreated(c, n)
}

func (cmd *NotifyCmd) printCreated(c *cli.Command, n notify.Notification) error {
	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, n)
	}
	newPrinter(c.Root().Writer).Successf("%s: %s (%s)", n.Title, n.Message, n.ID)
	return nil
}

func (cmd *NotifyCmd) runRead(ctx context.Context, c *cli.Command) error {
	id, err := cmd.existingID(c)
	if err != nil {
		return err
	}
	cmd.flags.App.Notifications.MarkAsRead(ctx, id)
	newPrinter(c.Root().Writer).Successf("Marked %s as read", id)
	return nil
}

func (cmd *NotifyCmd) runReadAll(ctx context.Context, c *cli.Command) error {
	store := cmd.flags.App.Notifications
	count := store.UnreadCount()
	store.MarkAllAsRead(ctx)
	newPrinter(c.Root().Writer).Successf("Marked %d notification(s) as read", count)
	return nil
}

func (cmd *NotifyCmd) runRemove(ctx context.Context, c *cli.Command) error {
	id, err := cmd.existingID(c)
	if err != nil {
		return err
	}
	cmd.flags.App.Notifications.Remove(ctx, id)
	newPrinter(c.Root().Writer).Successf("Removed %s", id)
	return nil
}

func (cmd *NotifyCmd) runClear(ctx context.Context, c *cli.Command) error {
	store := cmd.flags.App.Notifications
	count := len(store.Snapshot().Notifications)
	store.ClearAll(ctx)
	newPrinter(c.Root().Writer).Successf("Removed %d notification(s)", count)
	return nil
}

func (cmd *NotifyCmd) existingID(c *cli.Command) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("usage: %s", c.UsageText)
	}
	if _, ok := cmd.flags.App.Notifications.Snapshot().Find(id); !ok {
		return "", fmt.Errorf("notification %q not found", id)
	}
	return id, nil
}

func (cmd *NotifyCmd) runWatch(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cmd.flags.App
	out := c.Root().Writer

	// Only the newest state matters; a slow writer skips intermediate ones.
	updates := make(chan notify.State, 1)
	unsubscribe := app.Notifications.Subscribe(func(st notify.State) {
		select {
		case <-updates:
		default:
		}
		updates <- st
	})
	defer unsubscribe()

	watchErr := make(chan error, 1)
	go func() { watchErr <- app.Watch(ctx) }()

	if err := iojson.WriteLine(out, app.Notifications.Snapshot()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			if err != nil {
				log.Error().Err(err).Msg("storage watch stopped")
				return err
			}
			watchErr = nil
		case st := <-updates:
			if err := iojson.WriteLine(out, st); err != nil {
				return err
			}
		}
	}
}
