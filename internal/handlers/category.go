package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/i18n"
	"github.com/diewo77/go-salesagent/internal/apperr"
	"github.com/diewo77/go-salesagent/internal/catalog"
)

type CategoryHandler struct {
	cache *catalog.ContextCache
	log   *zap.Logger
}

func NewCategoryHandler(cache *catalog.ContextCache, log *zap.Logger) *CategoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryHandler{cache: cache, log: log}
}

type categoryView struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// List returns the shop categories; ?refresh=true refetches them.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	cats, err := h.cache.GetCategories(r.Context(), refresh)
	if err != nil {
		lang := i18n.LangFromContext(r.Context())
		h.log.Warn("categories unavailable", zap.Error(err), zap.Bool("retryable", apperr.Retryable(err)))
		httpx.WriteError(w, err, lang, h.log)
		return
	}
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView{Code: c.Code, Name: c.Name, Slug: c.Slug, Title: catalog.TabTitle(c.Name)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}
