// Package dashboard derives the summary figures shown on the dashboard,
// in reports and on invoices from catalog data.
package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
)

// TaxPercent is applied to invoice subtotals.
const TaxPercent = 10

// Level classifies stock against a product's reorder level.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// StockStatus buckets a product: low at or below the reorder level, medium
// up to three times the reorder level, high above that.
func StockStatus(p catalog.Product) Level {
	switch {
	case p.Stock <= p.ReorderLevel:
		return LevelLow
	case p.Stock <= p.ReorderLevel*3:
		return LevelMedium
	default:
		return LevelHigh
	}
}

type Buckets struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func StockBuckets(products []catalog.Product) Buckets {
	var b Buckets
	for _, p := range products {
		switch StockStatus(p) {
		case LevelLow:
			b.Low++
		case LevelMedium:
			b.Medium++
		default:
			b.High++
		}
	}
	return b
}

// LowStock returns the products at or below their reorder level.
func LowStock(products []catalog.Product) []catalog.Product {
	out := []catalog.Product{}
	for _, p := range products {
		if StockStatus(p) == LevelLow {
			out = append(out, p)
		}
	}
	return out
}

// InventoryValue is the cost of everything on hand.
func InventoryValue(products []catalog.Product) catalog.Money {
	var total catalog.Money
	for _, p := range products {
		total += p.Cost.Mul(p.Stock)
	}
	return total
}

// Revenue sums order totals, excluding cancelled orders.
func Revenue(orders []catalog.Order) catalog.Money {
	var total catalog.Money
	for _, o := range orders {
		if o.Status != catalog.OrderCancelled {
			total += o.Total
		}
	}
	return total
}

// RevenueByStatus sums order totals per status, cancelled included.
func RevenueByStatus(orders []catalog.Order) map[catalog.OrderStatus]catalog.Money {
	out := make(map[catalog.OrderStatus]catalog.Money)
	for _, o := range orders {
		out[o.Status] += o.Total
	}
	return out
}

type DailyRevenue struct {
	Date    time.Time     `json:"date"`
	Revenue catalog.Money `json:"revenue"`
}

// RevenueByDate groups non-cancelled revenue per calendar day, oldest first.
func RevenueByDate(orders []catalog.Order) []DailyRevenue {
	byDay := make(map[time.Time]catalog.Money)
	for _, o := range orders {
		if o.Status == catalog.OrderCancelled {
			continue
		}
		d := time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), 0, 0, 0, 0, time.UTC)
		byDay[d] += o.Total
	}

	out := make([]DailyRevenue, 0, len(byDay))
	for d, r := range byDay {
		out = append(out, DailyRevenue{Date: d, Revenue: r})
	}
	slices.SortFunc(out, func(a, b DailyRevenue) int { return a.Date.Compare(b.Date) })
	return out
}

// TopProducts ranks products by units sold across orders. Ties are broken
// by product name. n <= 0 returns every product sold.
func TopProducts(orders []catalog.Order, n int) []catalog.TopProduct {
	sold := make(map[string]*catalog.TopProduct)
	for _, o := range orders {
		if o.Status == catalog.OrderCancelled {
			continue
		}
		for _, it := range o.Items {
			tp, ok := sold[it.Product.ID]
			if !ok {
				tp = &catalog.TopProduct{Product: it.Product}
				sold[it.Product.ID] = tp
			}
			tp.Sold += it.Quantity
		}
	}

	out := make([]catalog.TopProduct, 0, len(sold))
	for _, tp := range sold {
		out = append(out, *tp)
	}
	slices.SortFunc(out, func(a, b catalog.TopProduct) int {
		if c := cmp.Compare(b.Sold, a.Sold); c != 0 {
			return c
		}
		return cmp.Compare(a.Product.Name, b.Product.Name)
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentOrders returns up to n orders, newest first.
func RecentOrders(orders []catalog.Order, n int) []catalog.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b catalog.Order) int { return b.Date.Compare(a.Date) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
