// Package pricing resolves unit prices from quantity tiers and formats amounts.
package pricing

import (
	"time"

	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// InternalPlaces is the precision kept for intermediate amounts.
	InternalPlaces int32 = 4
	// DisplayPlaces is the precision shown to the agent.
	DisplayPlaces int32 = 2
)

// ResolvePrice returns the effective unit price of item on the day of at.
// The active tier with the greatest MinQty not above the quantity wins;
// equal thresholds keep the lower price. Without a qualifying tier the
// base price applies.
func ResolvePrice(item models.CartLineItem, at time.Time) decimal.Decimal {
	var best *models.PriceTier
	for i := range item.Tiers {
		t := &item.Tiers[i]
		if t.MinQty > item.Quantity || !t.ActiveAt(at) {
			continue
		}
		switch {
		case best == nil, t.MinQty > best.MinQty:
			best = t
		case t.MinQty == best.MinQty && t.Price.LessThan(best.Price):
			best = t
		}
	}
	if best == nil {
		return item.BasePrice
	}
	return best.Price
}

// LineSubtotal is the resolved unit price times the quantity.
func LineSubtotal(item models.CartLineItem, at time.Time) decimal.Decimal {
	return Round(ResolvePrice(item, at).Mul(decimal.NewFromInt(int64(item.Quantity))))
}

// Round keeps InternalPlaces fraction digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(InternalPlaces)
}

// Display rounds to the precision shown to the agent.
func Display(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// Resolver binds price resolution to a clock.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a Resolver on the wall clock.
func NewResolver() Resolver {
	return Resolver{Now: time.Now}
}

// Time is the resolver's current time.
func (r Resolver) Time() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Resolve is ResolvePrice at the resolver's current time.
func (r Resolver) Resolve(item models.CartLineItem) decimal.Decimal {
	return ResolvePrice(item, r.Time())
}

// Subtotal is LineSubtotal at the resolver's current time.
func (r Resolver) Subtotal(item models.CartLineItem) decimal.Decimal {
	return LineSubtotal(item, r.Time())
}
