package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/internal/debounce"
)

// TextHandler exposes a debounced text channel (search box, order comments).
type TextHandler struct {
	ch *debounce.Channel[string]
}

func NewTextHandler(ch *debounce.Channel[string]) *TextHandler {
	return &TextHandler{ch: ch}
}

type textView struct {
	Raw     string         `json:"raw"`
	Settled string         `json:"settled"`
	State   debounce.State `json:"state"`
}

type textRequest struct {
	Value string `json:"value"`
}

func (h *TextHandler) view() textView {
	return textView{Raw: h.ch.Raw(), Settled: h.ch.Settled(), State: h.ch.State()}
}

func (h *TextHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.view())
}

// Put sets the raw value; settled follows after the quiet period.
func (h *TextHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	h.ch.SetRaw(req.Value)
	httpx.JSON(w, http.StatusAccepted, h.view())
}

// Delete clears raw and settled at once.
func (h *TextHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.ch.Clear()
	httpx.JSON(w, http.StatusOK, h.view())
}
