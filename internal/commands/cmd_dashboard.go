package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
	"github.com/Dharmiksheth/seamless-business-mosaic/pkg/iojson"
)

const reportWrap = 100

type DashboardCmd struct {
	flags *Flags

	jsonOutput bool
	raw        bool
}

// NewDashboardCmd creates the dashboard, report, invoice and inventory commands
func NewDashboardCmd(flags *Flags) *DashboardCmd {
	return &DashboardCmd{flags: flags}
}

// Register adds the commands to the application
func (cmd *DashboardCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput}
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "dashboard",
			Usage:     "Print the headline business figures",
			UsageText: "mosaic dashboard [--json]",
			Flags:     []cli.Flag{jsonFlag()},
			Action:    cmd.runDashboard,
		},
		&cli.Command{
			Name:      "report",
			Usage:     "Render the business report",
			UsageText: "mosaic report [--raw]",
			Description: `Renders the dashboard summary as a markdown report. Output is styled
for the terminal unless --raw is set or stdout is not a terminal.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "raw", Usage: "print plain markdown", Destination: &cmd.raw},
			},
			Action: cmd.runReport,
		},
		&cli.Command{
			Name:      "invoice",
			Usage:     "Print the invoice for an order",
			UsageText: "mosaic invoice <order-id> [--json]",
			Flags:     []cli.Flag{jsonFlag()},
			Action:    cmd.runInvoice,
		},
		&cli.Command{
			Name:  "inventory",
			Usage: "Inventory maintenance",
			Commands: []*cli.Command{
				{
					Name:      "check",
					Usage:     "Raise alerts for products at or below their reorder level",
					UsageText: "mosaic inventory check [--json]",
					Description: `Scans the catalog and raises one inventory alert per low-stock product.
A product is alerted again only after its stock has recovered.`,
					Flags:  []cli.Flag{jsonFlag()},
					Action: cmd.runInventoryCheck,
				},
			},
		},
	)

	return app
}

func (cmd *DashboardCmd) runDashboard(_ context.Context, c *cli.Command) error {
	s := dashboard.Summarize(cmd.flags.App.Catalog)
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, s)
	}

	p := newPrinter(out)
	p.Header("Dashboard")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total sales\t%s\n", dashboard.FormatCurrency(s.TotalSales))
	_, _ = fmt.Fprintf(w, "Orders\t%s\n", humanize.Comma(int64(s.OrdersCount)))
	_, _ = fmt.Fprintf(w, "Average order\t%s\n", dashboard.FormatCurrency(s.AverageOrder))
	_, _ = fmt.Fprintf(w, "Inventory value\t%s\n", dashboard.FormatCurrency(s.InventoryValue))
	_, _ = fmt.Fprintf(w, "Stock\t%d low, %d medium, %d high\n", s.Stock.Low, s.Stock.Medium, s.Stock.High)
	_, _ = fmt.Fprintf(w, "Open tasks\t%d\n", s.OpenTasks)
	_, _ = fmt.Fprintf(w, "Active staff\t%d\n", s.ActiveStaff)
	_, _ = fmt.Fprintf(w, "Unread notifications\t%d\n", cmd.flags.App.Notifications.UnreadCount())
	return w.Flush()
}

func (cmd *DashboardCmd) runReport(_ context.Context, c *cli.Command) error {
	md := dashboard.Markdown(dashboard.Summarize(cmd.flags.App.Catalog))
	out := c.Root().Writer

	if cmd.raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprint(out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(reportWrap),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func (cmd *DashboardCmd) runInvoice(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: %s", c.UsageText)
	}

	o, err := cmd.flags.App.Catalog.Order(id)
	if err != nil {
		return err
	}
	inv := dashboard.Invoice(o)
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, inv)
	}

	p := newPrinter(out)
	p.Header("Invoice " + inv.Number)
	p.Printf("Order:    %s (%s)", inv.Order, inv.Status)
	p.Printf("Date:     %s", inv.Date)
	p.Printf("Bill to:  %s, %s, %s", inv.Customer.Name, inv.Customer.Address, inv.Customer.City)
	p.Printf("")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "ITEM\tSKU\tQTY\tUNIT\tAMOUNT\t")
	for _, l := range inv.Lines {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n",
			l.Description, l.SKU, l.Quantity, dashboard.FormatCurrency(l.UnitPrice), dashboard.FormatCurrency(l.Amount))
	}
	_, _ = fmt.Fprintf(w, "\t\t\tSubtotal\t%s\t\n", dashboard.FormatCurrency(inv.Subtotal))
	_, _ = fmt.Fprintf(w, "\t\t\tTax (%d%%)\t%s\t\n", dashboard.TaxPercent, dashboard.FormatCurrency(inv.Tax))
	_, _ = fmt.Fprintf(w, "\t\t\tTotal\t%s\t\n", dashboard.FormatCurrency(inv.Total))
	return w.Flush()
}

func (cmd *DashboardCmd) runInventoryCheck(ctx context.Context, c *cli.Command) error {
	emitted, err := cmd.flags.App.Stock.Scan(ctx)
	if err != nil {
		return fmt.Errorf("inventory check: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, emitted)
	}

	p := newPrinter(out)
	if len(emitted) == 0 {
		p.Successf("No new low-stock alerts")
		return nil
	}
	for _, n := range emitted {
		p.Infof("%s", n.Message)
	}
	return nil
}
