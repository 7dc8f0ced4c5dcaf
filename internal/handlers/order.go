package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/i18n"
	"github.com/diewo77/go-salesagent/internal/apperr"
	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/orders"
)

type OrderHandler struct {
	pipeline *orders.Pipeline
	log      *zap.Logger
}

func NewOrderHandler(p *orders.Pipeline, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{pipeline: p, log: log}
}

type orderResult struct {
	DocEntry models.DocEntry `json:"docEntry"`
	Message  string          `json:"message"`
}

// Submit sends the cart as an order for the selected customer.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	lang := i18n.LangFromContext(r.Context())
	entry, err := h.pipeline.Submit(r.Context())
	if err != nil {
		resp := httpx.ErrorResponse{
			Error:   apperr.KindOf(err).String(),
			Message: apperr.OrderFailureMessage(err, lang),
			Details: map[string]bool{"retryable": apperr.Retryable(err)},
		}
		if apperr.KindOf(err) == apperr.KindUnknown {
			h.log.Error("order submission", zap.Error(err))
		}
		httpx.JSON(w, httpx.StatusFor(err), resp)
		return
	}
	httpx.JSON(w, http.StatusCreated, orderResult{DocEntry: entry, Message: i18n.T(lang, "order.sent")})
}

// Last returns the document entry of the last successful order.
func (h *OrderHandler) Last(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.pipeline.LastDocEntry()
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"docEntry": entry})
}

// State returns the pipeline state and the reason of the last failure.
func (h *OrderHandler) State(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"state": h.pipeline.State()}
	if err := h.pipeline.LastError(); err != nil {
		resp["lastError"] = apperr.OrderFailureMessage(err, i18n.LangFromContext(r.Context()))
	}
	httpx.JSON(w, http.StatusOK, resp)
}
