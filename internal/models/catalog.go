package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates (docDate, tier expiry).
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
// The zero Date encodes as JSON null.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" as well as full timestamps, keeping only the date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PriceTier is a quantity threshold with its unit price.
type PriceTier struct {
	MinQty          int             `json:"minQty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Expiry          Date            `json:"expiry"`
}

// ActiveAt reports whether the tier is still valid on the day of at.
// A tier stays valid through its expiry day; a zero expiry never expires.
func (t PriceTier) ActiveAt(at time.Time) bool {
	if t.Expiry.IsZero() {
		return true
	}
	y, m, d := at.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !t.Expiry.Time.Before(today)
}

// CartLineItem is a catalog item held in the cart with its requested quantity.
type CartLineItem struct {
	ItemCode  string          `json:"itemCode"`
	ItemName  string          `json:"itemName"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	BasePrice decimal.Decimal `json:"basePrice"`
	TaxCode   string          `json:"taxCode"`
	Tiers     []PriceTier     `json:"tiers"`
	Quantity  int             `json:"quantity"`
}

// Clone returns a copy that shares no slices with the receiver.
func (i CartLineItem) Clone() CartLineItem {
	out := i
	if i.Tiers != nil {
		out.Tiers = make([]PriceTier, len(i.Tiers))
		copy(out.Tiers, i.Tiers)
	}
	return out
}

// ProductCategory is a catalog category as shown in the shop tabs.
type ProductCategory struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RemoteCategory is the wire shape returned by the category endpoint.
type RemoteCategory struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
