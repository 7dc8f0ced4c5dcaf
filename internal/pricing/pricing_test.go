package pricing

import (
	"testing"
	"time"

	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/shopspring/decimal"
)

var testDay = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tieredItem(qty int) models.CartLineItem {
	return models.CartLineItem{
		ItemCode:  "A-100",
		BasePrice: dec("100"),
		Tiers: []models.PriceTier{
			{MinQty: 5, Price: dec("90")},
			{MinQty: 10, Price: dec("80")},
		},
		Quantity: qty,
	}
}

func TestResolvePrice_NoTiersUsesBasePrice(t *testing.T) {
	for _, qty := range []int{1, 7, 500} {
		item := models.CartLineItem{BasePrice: dec("42.1234"), Quantity: qty}
		if got := ResolvePrice(item, testDay); !got.Equal(item.BasePrice) {
			t.Errorf("qty %d: got %s want %s", qty, got, item.BasePrice)
		}
	}
}

func TestResolvePrice_Tiers(t *testing.T) {
	tests := []struct {
		qty  int
		want string
	}{
		{1, "100"},
		{4, "100"},
		{5, "90"},
		{9, "90"},
		{10, "80"},
		{250, "80"},
	}
	for _, tt := range tests {
		if got := ResolvePrice(tieredItem(tt.qty), testDay); !got.Equal(dec(tt.want)) {
			t.Errorf("qty %d: got %s want %s", tt.qty, got, tt.want)
		}
	}
}

func TestResolvePrice_UnorderedTiers(t *testing.T) {
	item := tieredItem(12)
	item.Tiers[0], item.Tiers[1] = item.Tiers[1], item.Tiers[0]
	if got := ResolvePrice(item, testDay); !got.Equal(dec("80")) {
		t.Fatalf("got %s want 80", got)
	}
}

func TestResolvePrice_EqualMinQtyPrefersLowerPrice(t *testing.T) {
	item := models.CartLineItem{
		BasePrice: dec("100"),
		Tiers: []models.PriceTier{
			{MinQty: 3, Price: dec("70")},
			{MinQty: 3, Price: dec("65")},
			{MinQty: 3, Price: dec("75")},
		},
		Quantity: 3,
	}
	if got := ResolvePrice(item, testDay); !got.Equal(dec("65")) {
		t.Fatalf("got %s want 65", got)
	}
}

func TestResolvePrice_ExpiredTierIgnored(t *testing.T) {
	item := tieredItem(10)
	item.Tiers[1].Expiry = models.NewDate(2026, 3, 14)
	if got := ResolvePrice(item, testDay); !got.Equal(dec("90")) {
		t.Fatalf("expired tier applied: got %s", got)
	}

	// valid through the expiry day itself
	item.Tiers[1].Expiry = models.NewDate(2026, 3, 15)
	if got := ResolvePrice(item, testDay); !got.Equal(dec("80")) {
		t.Fatalf("tier expiring today should apply: got %s", got)
	}
}

func TestLineSubtotal(t *testing.T) {
	item := tieredItem(9)
	if got := LineSubtotal(item, testDay); !got.Equal(dec("810")) {
		t.Fatalf("got %s want 810", got)
	}

	item = models.CartLineItem{BasePrice: dec("0.33335"), Quantity: 3}
	if got := LineSubtotal(item, testDay); !got.Equal(dec("1.0001")) {
		t.Fatalf("got %s want 1.0001", got)
	}
}

func TestResolverUsesClock(t *testing.T) {
	item := tieredItem(10)
	item.Tiers[1].Expiry = models.NewDate(2026, 3, 15)
	r := Resolver{Now: func() time.Time { return testDay.AddDate(0, 0, 1) }}
	if got := r.Resolve(item); !got.Equal(dec("90")) {
		t.Fatalf("got %s want 90", got)
	}
	if got := r.Subtotal(item); !got.Equal(dec("900")) {
		t.Fatalf("got %s want 900", got)
	}
}

func TestFormatLempiras(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "L. 0.00"},
		{"5.5", "L. 5.50"},
		{"999.999", "L. 1,000.00"},
		{"12500", "L. 12,500.00"},
		{"1234567.891", "L. 1,234,567.89"},
		{"-1500.2", "-L. 1,500.20"},
	}
	for _, tt := range tests {
		if got := FormatLempiras(dec(tt.in)); got != tt.want {
			t.Errorf("FormatLempiras(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
