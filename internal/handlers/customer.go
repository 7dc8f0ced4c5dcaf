package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/i18n"
	"github.com/diewo77/go-salesagent/internal/catalog"
	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/validation"
)

type CustomerHandler struct {
	cache *catalog.ContextCache
	log   *zap.Logger
}

func NewCustomerHandler(cache *catalog.ContextCache, log *zap.Logger) *CustomerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerHandler{cache: cache, log: log}
}

type customerView struct {
	Customer  *models.SelectedCustomer `json:"customer"`
	PriceList string                   `json:"priceList"`
}

// Get returns the selected customer, null when none is selected.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := customerView{PriceList: h.cache.PriceList(r.Context())}
	if c, ok := h.cache.LoadSelectedCustomer(r.Context()); ok {
		resp.Customer = &c
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Put selects and persists the customer.
func (h *CustomerHandler) Put(w http.ResponseWriter, r *http.Request) {
	var c models.SelectedCustomer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("cardCode", c.CardCode, v)
	validation.Required("cardName", c.CardName, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v.Translate(i18n.LangFromContext(r.Context())))
		return
	}
	if err := h.cache.SaveSelectedCustomer(r.Context(), c); err != nil {
		httpx.WriteError(w, err, i18n.LangFromContext(r.Context()), h.log)
		return
	}
	httpx.JSON(w, http.StatusOK, customerView{Customer: &c, PriceList: h.cache.PriceList(r.Context())})
}

// Delete forgets the selected customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearSelectedCustomer(r.Context()); err != nil {
		httpx.WriteError(w, err, i18n.LangFromContext(r.Context()), h.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
