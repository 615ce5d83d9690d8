package erp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

// ProductSource lists the products to watch.
type ProductSource interface {
	Products() []catalog.Product
}

// StockMonitor raises one inventory alert per product while it sits at or
// below its reorder level. The alert re-arms once stock recovers.
type StockMonitor struct {
	products ProductSource
	notifier *Notifier
	alerted  *kv.TypedKV[bool]
	log      zerolog.Logger
}

// NewStockMonitor creates a StockMonitor. Alert bookkeeping lives in store
// under the "alerts" namespace keyed by SKU.
func NewStockMonitor(products ProductSource, notifier *Notifier, store kv.KV) *StockMonitor {
	return &StockMonitor{
		products: products,
		notifier: notifier,
		alerted:  kv.Scoped[bool](store, "alerts"),
		log:      logging.Component("stock"),
	}
}

// Scan checks every product and returns the alerts it emitted.
func (m *StockMonitor) Scan(ctx context.Context) ([]notify.Notification, error) {
	emitted := []notify.Notification{}

	for _, p := range m.products.Products() {
		seen, err := m.alerted.Has(ctx, p.SKU)
		if err != nil {
			return emitted, fmt.Errorf("check alert for %s: %w", p.SKU, err)
		}

		if dashboard.StockStatus(p) != dashboard.LevelLow {
			if seen {
				if err := m.alerted.Delete(ctx, p.SKU); err != nil {
					return emitted, fmt.Errorf("re-arm alert for %s: %w", p.SKU, err)
				}
				m.log.Debug().Str("sku", p.SKU).Int("stock", p.Stock).Msg("stock recovered")
			}
			continue
		}
		if seen {
			continue
		}

		details := fmt.Sprintf("%s (%s) is low on stock: %d left, reorder level is %d.",
			p.Name, p.SKU, p.Stock, p.ReorderLevel)
		n, err := m.notifier.Emit(ctx, notify.ModuleInventory, notify.ActionAlert, p.Name, details)
		if err != nil {
			return emitted, err
		}
		emitted = append(emitted, n)

		if err := m.alerted.Set(ctx, p.SKU, true); err != nil {
			return emitted, fmt.Errorf("record alert for %s: %w", p.SKU, err)
		}
		m.log.Info().Str("sku", p.SKU).Int("stock", p.Stock).Msg("low stock alert")
	}

	return emitted, nil
}
