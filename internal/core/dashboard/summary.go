package dashboard

import (
	"fmt"
	"strings"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/dustin/go-humanize"
)

// Summary is everything the dashboard screen and report show.
type Summary struct {
	TotalSales      catalog.Money                         `json:"totalSales"`
	OrdersCount     int                                   `json:"ordersCount"`
	AverageOrder    catalog.Money                         `json:"averageOrder"`
	InventoryValue  catalog.Money                         `json:"inventoryValue"`
	LowStock        []catalog.Product                     `json:"lowStock"`
	Stock           Buckets                               `json:"stock"`
	TopProducts     []catalog.TopProduct                  `json:"topProducts"`
	RecentOrders    []catalog.Order                       `json:"recentOrders"`
	RevenueByStatus map[catalog.OrderStatus]catalog.Money `json:"revenueByStatus"`
	RevenueByDate   []DailyRevenue                        `json:"revenueByDate"`
	OpenTasks       int                                   `json:"openTasks"`
	ActiveStaff     int                                   `json:"activeStaff"`
}

// Summarize computes a Summary from live provider data.
func Summarize(p catalog.Provider) Summary {
	products := p.Products()
	orders := p.Orders()

	s := Summary{
		TotalSales:      Revenue(orders),
		OrdersCount:     len(orders),
		InventoryValue:  InventoryValue(products),
		LowStock:        LowStock(products),
		Stock:           StockBuckets(products),
		TopProducts:     TopProducts(orders, 4),
		RecentOrders:    RecentOrders(orders, 5),
		RevenueByStatus: RevenueByStatus(orders),
		RevenueByDate:   RevenueByDate(orders),
	}

	billable := 0
	for _, o := range orders {
		if o.Status != catalog.OrderCancelled {
			billable++
		}
	}
	if billable > 0 {
		s.AverageOrder = s.TotalSales / catalog.Money(billable)
	}

	for _, t := range p.Tasks() {
		if t.Status != catalog.TaskCompleted {
			s.OpenTasks++
		}
	}
	for _, e := range p.Employees() {
		if e.Status == catalog.EmployeeActive {
			s.ActiveStaff++
		}
	}

	return s
}

// FormatCurrency renders m as dollars with thousands separators, e.g. "$1,234.50".
func FormatCurrency(m catalog.Money) string {
	if m < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", (-m).Float())
	}
	return "$" + humanize.FormatFloat("#,###.##", m.Float())
}

// Markdown renders the summary as a report body.
func Markdown(s Summary) string {
	var b strings.Builder

	b.WriteString("# Business Report\n\n")
	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total sales | %s |\n", FormatCurrency(s.TotalSales))
	fmt.Fprintf(&b, "| Orders | %s |\n", humanize.Comma(int64(s.OrdersCount)))
	fmt.Fprintf(&b, "| Average order | %s |\n", FormatCurrency(s.AverageOrder))
	fmt.Fprintf(&b, "| Inventory value | %s |\n", FormatCurrency(s.InventoryValue))
	fmt.Fprintf(&b, "| Low stock items | %d |\n", len(s.LowStock))
	fmt.Fprintf(&b, "| Open tasks | %d |\n", s.OpenTasks)
	fmt.Fprintf(&b, "| Active staff | %d |\n\n", s.ActiveStaff)

	b.WriteString("## Inventory Status\n\n")
	fmt.Fprintf(&b, "- Low: %d\n- Medium: %d\n- High: %d\n\n", s.Stock.Low, s.Stock.Medium, s.Stock.High)

	if len(s.LowStock) > 0 {
		b.WriteString("### Reorder Soon\n\n")
		b.WriteString("| SKU | Product | Stock | Reorder level |\n|---|---|---|---|\n")
		for _, p := range s.LowStock {
			fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", p.SKU, p.Name, p.Stock, p.ReorderLevel)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top Products\n\n")
	b.WriteString("| Product | Units sold |\n|---|---|\n")
	for _, tp := range s.TopProducts {
		fmt.Fprintf(&b, "| %s | %d |\n", tp.Product.Name, tp.Sold)
	}
	b.WriteString("\n")

	b.WriteString("## Revenue by Status\n\n")
	b.WriteString("| Status | Revenue |\n|---|---|\n")
	for _, st := range catalog.OrderStatuses {
		if r, ok := s.RevenueByStatus[st]; ok {
			fmt.Fprintf(&b, "| %s | %s |\n", st, FormatCurrency(r))
		}
	}
	b.WriteString("\n")

	b.WriteString("## Recent Orders\n\n")
	b.WriteString("| Order | Customer | Date | Status | Total |\n|---|---|---|---|---|\n")
	for _, o := range s.RecentOrders {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			o.OrderNumber, o.Customer.Name, o.Date.Format("2006-01-02"), o.Status, FormatCurrency(o.Total))
	}

	return b.String()
}
