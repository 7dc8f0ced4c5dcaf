package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SelectedCustomer is the customer the agent is currently ordering for.
type SelectedCustomer struct {
	CardCode     string `json:"cardCode"`
	CardName     string `json:"cardName"`
	FederalTaxID string `json:"federalTaxID,omitempty"`
	PriceListNum string `json:"priceListNum,omitempty"`
}

// UnmarshalJSON accepts priceListNum either as a string or as a number,
// the customer endpoint sends the latter.
func (c *SelectedCustomer) UnmarshalJSON(b []byte) error {
	type plain SelectedCustomer
	var raw struct {
		plain
		PriceListNum json.RawMessage `json:"priceListNum,omitempty"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = SelectedCustomer(raw.plain)
	c.PriceListNum = ""
	p := bytes.TrimSpace(raw.PriceListNum)
	if len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return nil
	}
	if p[0] == '"' {
		var s string
		if err := json.Unmarshal(p, &s); err != nil {
			return err
		}
		c.PriceListNum = strings.TrimSpace(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(p, &n); err != nil {
		return err
	}
	c.PriceListNum = n.String()
	return nil
}
