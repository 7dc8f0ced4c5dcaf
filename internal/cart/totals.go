package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/pricing"
)

// LineTotal is a cart line with its resolved unit price.
type LineTotal struct {
	models.CartLineItem
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Totals is derived from the cart contents and never stored.
type Totals struct {
	Lines     []LineTotal     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// ComputeTotals prices every line on the day of at. Total is the sum of
// the line subtotals at internal precision; round it for display only.
func ComputeTotals(lines []models.CartLineItem, at time.Time) Totals {
	out := Totals{Lines: make([]LineTotal, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		sub := pricing.LineSubtotal(l, at)
		out.Lines = append(out.Lines, LineTotal{
			CartLineItem: l,
			UnitPrice:    pricing.ResolvePrice(l, at),
			Subtotal:     sub,
		})
		out.Total = out.Total.Add(sub)
		out.ItemCount += l.Quantity
	}
	return out
}
