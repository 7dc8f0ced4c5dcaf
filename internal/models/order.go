package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// The order endpoint expects numeric prices, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderLine is one line of the order sent to the backend.
// PriceList is the undiscounted catalog price, PriceAfterVAT the tier-resolved one.
type OrderLine struct {
	ItemCode      string          `json:"itemCode"`
	Quantity      int             `json:"quantity"`
	PriceList     decimal.Decimal `json:"priceList"`
	PriceAfterVAT decimal.Decimal `json:"priceAfterVAT"`
	TaxCode       string          `json:"taxCode"`
}

// OrderPayload is built fresh for every submission and never persisted.
type OrderPayload struct {
	CardCode   string      `json:"cardCode"`
	DocDate    string      `json:"docDate"`
	DocDueDate string      `json:"docDueDate"`
	Comments   string      `json:"comments"`
	Lines      []OrderLine `json:"lines"`
}

// DocEntry identifies an order created by the backend.
type DocEntry string

// UnmarshalJSON accepts numeric and string identifiers.
func (d *DocEntry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DocEntry(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = DocEntry(n.String())
	return nil
}

// OrderResponse is the body returned by the order endpoint on success.
type OrderResponse struct {
	DocEntry DocEntry `json:"docEntry"`
	Message  string   `json:"message,omitempty"`
}
