package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/pkg/iojson"
)

type CatalogCmd struct {
	flags *Flags

	jsonOutput bool
	query      string
	sku        string
	category   string
	status     string
	priority   string
}

// NewCatalogCmd creates a new catalog command
func NewCatalogCmd(flags *Flags) *CatalogCmd {
	return &CatalogCmd{flags: flags}
}

// Register adds the catalog command to the application
func (cmd *CatalogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "catalog",
		Usage: "Browse products, orders, customers, employees and tasks",
		Commands: []*cli.Command{
			{
				Name:      "products",
				Usage:     "List products",
				UsageText: "mosaic catalog products [--q text] [--sku 'FURN-*'] [--category name] [--json]",
				Flags: []cli.Flag{
					cmd.queryFlag(),
					&cli.StringFlag{Name: "sku", Usage: "SKU glob pattern", Destination: &cmd.sku},
					&cli.StringFlag{Name: "category", Usage: "exact category", Destination: &cmd.category},
					cmd.jsonFlag(),
				},
				Action: cmd.runProducts,
			},
			{
				Name:      "orders",
				Usage:     "List orders",
				UsageText: "mosaic catalog orders [--q text] [--status shipped] [--json]",
				Flags: []cli.Flag{
					cmd.queryFlag(),
					&cli.StringFlag{Name: "status", Usage: "order status", Destination: &cmd.status},
					cmd.jsonFlag(),
				},
				Action: cmd.runOrders,
			},
			{
				Name:      "customers",
				Usage:     "List customers",
				UsageText: "mosaic catalog customers [--q text] [--json]",
				Flags:     []cli.Flag{cmd.queryFlag(), cmd.jsonFlag()},
				Action:    cmd.runCustomers,
			},
			{
				Name:      "employees",
				Usage:     "List employees",
				UsageText: "mosaic catalog employees [--q text] [--json]",
				Flags:     []cli.Flag{cmd.queryFlag(), cmd.jsonFlag()},
				Action:    cmd.runEmployees,
			},
			{
				Name:      "tasks",
				Usage:     "List tasks",
				UsageText: "mosaic catalog tasks [--q text] [--status todo] [--priority high] [--json]",
				Flags: []cli.Flag{
					cmd.queryFlag(),
					&cli.StringFlag{Name: "status", Usage: "todo, in-progress or completed", Destination: &cmd.status},
					&cli.StringFlag{Name: "priority", Usage: "low, medium or high", Destination: &cmd.priority},
					cmd.jsonFlag(),
				},
				Action: cmd.runTasks,
			},
		},
	})

	return app
}

func (cmd *CatalogCmd) queryFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "q",
		Usage:       "case-insensitive search text",
		Destination: &cmd.query,
	}
}

func (cmd *CatalogCmd) jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput}
}

// table writes rows through a tabwriter unless JSON output is requested.
func table[T any](out io.Writer, asJSON bool, items []T, header string, row func(T) string) error {
	if asJSON {
		return iojson.WriteWith(out, os.Stderr, items)
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "No results")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header)
	for _, it := range items {
		_, _ = fmt.Fprintln(w, row(it))
	}
	return w.Flush()
}

func (cmd *CatalogCmd) runProducts(_ context.Context, c *cli.Command) error {
	products, err := catalog.FilterProducts(cmd.flags.App.Catalog.Products(), catalog.ProductQuery{
		Text:     cmd.query,
		SKU:      cmd.sku,
		Category: cmd.category,
	})
	if err != nil {
		return err
	}

	return table(c.Root().Writer, cmd.jsonOutput, products, "SKU\tNAME\tCATEGORY\tPRICE\tSTOCK\tLEVEL",
		func(p catalog.Product) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s",
				p.SKU, p.Name, p.Category, dashboard.FormatCurrency(p.Price), p.Stock, dashboard.StockStatus(p))
		})
}

func (cmd *CatalogCmd) runOrders(_ context.Context, c *cli.Command) error {
	orders := catalog.FilterOrders(cmd.flags.App.Catalog.Orders(), cmd.query)
	if cmd.status != "" {
		kept := orders[:0]
		for _, o := range orders {
			if string(o.Status) == cmd.status {
				kept = append(kept, o)
			}
		}
		orders = kept
	}

	return table(c.Root().Writer, cmd.jsonOutput, orders, "ORDER\tCUSTOMER\tDATE\tSTATUS\tITEMS\tTOTAL",
		func(o catalog.Order) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s",
				o.OrderNumber, o.Customer.Name, o.Date.Format("2006-01-02"), o.Status, len(o.Items), dashboard.FormatCurrency(o.Total))
		})
}

func (cmd *CatalogCmd) runCustomers(_ context.Context, c *cli.Command) error {
	customers := catalog.FilterCustomers(cmd.flags.App.Catalog.Customers(), cmd.query)
	return table(c.Root().Writer, cmd.jsonOutput, customers, "ID\tNAME\tCOMPANY\tEMAIL\tCITY",
		func(cu catalog.Customer) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", cu.ID, cu.Name, cu.Company, cu.Email, cu.City)
		})
}

func (cmd *CatalogCmd) runEmployees(_ context.Context, c *cli.Command) error {
	employees := catalog.FilterEmployees(cmd.flags.App.Catalog.Employees(), cmd.query)
	return table(c.Root().Writer, cmd.jsonOutput, employees, "ID\tNAME\tDEPARTMENT\tPOSITION\tSTATUS",
		func(e catalog.Employee) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", e.ID, e.Name, e.Department, e.Position, e.Status)
		})
}

func (cmd *CatalogCmd) runTasks(_ context.Context, c *cli.Command) error {
	tasks := catalog.FilterTasks(cmd.flags.App.Catalog.Tasks(), catalog.TaskQuery{
		Text:     cmd.query,
		Status:   catalog.TaskStatus(cmd.status),
		Priority: catalog.TaskPriority(cmd.priority),
	})
	return table(c.Root().Writer, cmd.jsonOutput, tasks, "ID\tTITLE\tASSIGNEE\tDUE\tSTATUS\tPRIORITY",
		func(t catalog.Task) string {
			assignee := "-"
			if t.Assignee != nil {
				assignee = t.Assignee.Name
			}
			return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
				t.ID, t.Title, assignee, t.DueDate.Format("2006-01-02"), t.Status, t.Priority)
		})
}
