package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/i18n"
	"github.com/diewo77/go-salesagent/internal/cart"
	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/pricing"
	"github.com/diewo77/go-salesagent/validation"
)

type CartHandler struct {
	cart *cart.Store
}

func NewCartHandler(c *cart.Store) *CartHandler {
	return &CartHandler{cart: c}
}

type cartLineView struct {
	cart.LineTotal
	UnitPriceDisplay string `json:"unitPriceDisplay"`
	SubtotalDisplay  string `json:"subtotalDisplay"`
}

type cartView struct {
	Lines        []cartLineView  `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
	ItemCount    int             `json:"itemCount"`
}

func viewOf(t cart.Totals) cartView {
	out := cartView{
		Lines:        make([]cartLineView, 0, len(t.Lines)),
		Total:        pricing.Display(t.Total),
		TotalDisplay: pricing.FormatLempiras(t.Total),
		ItemCount:    t.ItemCount,
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, cartLineView{
			LineTotal:        l,
			UnitPriceDisplay: pricing.FormatLempiras(l.UnitPrice),
			SubtotalDisplay:  pricing.FormatLempiras(l.Subtotal),
		})
	}
	return out
}

// Get returns the cart lines with resolved prices and the total.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, viewOf(h.cart.Totals()))
}

// AddItem adds a catalog item or merges it into the existing line.
// A missing quantity counts as 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item models.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("itemCode", item.ItemCode, v)
	validation.Required("itemName", item.ItemName, v)
	validation.NonNegativeDecimal("basePrice", item.BasePrice, v)
	for _, t := range item.Tiers {
		validation.PositiveInt("tiers.minQty", t.MinQty, v)
		validation.NonNegativeDecimal("tiers.price", t.Price, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Translate(i18n.LangFromContext(r.Context())))
		return
	}
	qty := item.Quantity
	if qty == 0 {
		qty = 1
	}
	h.cart.AddOrMergeItem(item, qty)
	httpx.JSON(w, http.StatusCreated, viewOf(h.cart.Totals()))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity of a line; values below 1 are clamped.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if _, ok := h.cart.Get(code); !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	h.cart.UpdateQuantity(code, req.Quantity)
	httpx.JSON(w, http.StatusOK, viewOf(h.cart.Totals()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.PathValue("code"))
	httpx.JSON(w, http.StatusOK, viewOf(h.cart.Totals()))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}
