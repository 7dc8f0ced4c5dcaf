package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/auth"
	"github.com/diewo77/go-salesagent/httpx"
	"github.com/diewo77/go-salesagent/i18n"
	"github.com/diewo77/go-salesagent/internal/policy"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	log       *zap.Logger
	lang      string
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, defaultLang string, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
		log:       log,
		lang:      defaultLang,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply global middleware: bearer session + language
	handler := auth.Middleware(a.withPreferences(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /healthz", a.health)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes (require a bearer token)
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.routerCfg.CartHandler
	a.mux.Handle("GET /cart", a.requireAuth(ch.Get))
	a.mux.Handle("POST /cart/items", a.requireAuth(ch.AddItem))
	a.mux.Handle("PUT /cart/items/{code}", a.requireAuth(ch.UpdateItem))
	a.mux.Handle("DELETE /cart/items/{code}", a.requireAuth(ch.RemoveItem))
	a.mux.Handle("DELETE /cart", a.requireAuth(ch.Clear))

	cu := a.routerCfg.CustomerHandler
	a.mux.Handle("GET /customer", a.requireAuth(cu.Get))
	a.mux.Handle("PUT /customer", a.requireAuth(cu.Put))
	a.mux.Handle("DELETE /customer", a.requireAuth(cu.Delete))

	a.mux.Handle("GET /categories", a.requireAuth(a.routerCfg.CategoryHandler.List))

	for path, th := range map[string]textRoutes{
		"/comments": a.routerCfg.CommentsHandler,
		"/search":   a.routerCfg.SearchHandler,
	} {
		a.mux.Handle("GET "+path, a.requireAuth(th.Get))
		a.mux.Handle("PUT "+path, a.requireAuth(th.Put))
		a.mux.Handle("DELETE "+path, a.requireAuth(th.Delete))
	}

	oh := a.routerCfg.OrderHandler
	a.mux.Handle("POST /orders", a.requireAuth(oh.Submit))
	a.mux.Handle("GET /orders/last", a.requireAuth(oh.Last))
	a.mux.Handle("GET /orders/state", a.requireAuth(oh.State))
}

type textRoutes interface {
	Get(http.ResponseWriter, *http.Request)
	Put(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) requireAuth(fn http.HandlerFunc) http.Handler {
	return auth.RequireAuth(fn)
}

// withPreferences injects the language from the query or Accept-Language.
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.lang
		if h := r.Header.Get("Accept-Language"); h != "" {
			lang = i18n.DetectLanguage(h)
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.DetectLanguage(q)
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"cartLines": a.routerCfg.Session.Cart.Len(),
		"order":     a.routerCfg.Session.Orders.State(),
	})
}
