package dashboard

import "github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"

type InvoiceLine struct {
	Description string        `json:"description"`
	SKU         string        `json:"sku"`
	Quantity    int           `json:"quantity"`
	UnitPrice   catalog.Money `json:"unitPrice"`
	Amount      catalog.Money `json:"amount"`
}

type InvoiceDoc struct {
	Number   string           `json:"number"`
	Order    string           `json:"order"`
	Customer catalog.Customer `json:"customer"`
	Status   string           `json:"status"`
	Date     string           `json:"date"`
	Lines    []InvoiceLine    `json:"lines"`
	Subtotal catalog.Money    `json:"subtotal"`
	Tax      catalog.Money    `json:"tax"`
	Total    catalog.Money    `json:"total"`
}

// Invoice prices an order: line amounts at unit price, TaxPercent on the
// subtotal.
func Invoice(o catalog.Order) InvoiceDoc {
	doc := InvoiceDoc{
		Number:   "INV-" + o.OrderNumber,
		Order:    o.OrderNumber,
		Customer: o.Customer,
		Status:   string(o.Status),
		Date:     o.Date.Format("January 2, 2006"),
		Lines:    make([]InvoiceLine, 0, len(o.Items)),
	}

	for _, it := range o.Items {
		amount := it.UnitPrice.Mul(it.Quantity)
		doc.Lines = append(doc.Lines, InvoiceLine{
			Description: it.Product.Name,
			SKU:         it.Product.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
		})
		doc.Subtotal += amount
	}

	doc.Tax = doc.Subtotal.Percent(TaxPercent)
	doc.Total = doc.Subtotal + doc.Tax
	return doc
}
