// Package policy assembles the handlers served by the API.
package policy

import (
	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/handlers"
	"github.com/diewo77/go-salesagent/internal/services"
)

// RouterConfig holds configured handlers for the application.
type RouterConfig struct {
	CartHandler     *handlers.CartHandler
	CustomerHandler *handlers.CustomerHandler
	CategoryHandler *handlers.CategoryHandler
	SearchHandler   *handlers.TextHandler
	CommentsHandler *handlers.TextHandler
	OrderHandler    *handlers.OrderHandler

	Session *services.AgentSession
}

// NewRouterConfig wires the handlers of one agent session.
func NewRouterConfig(session *services.AgentSession, log *zap.Logger) *RouterConfig {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouterConfig{
		CartHandler:     handlers.NewCartHandler(session.Cart),
		CustomerHandler: handlers.NewCustomerHandler(session.Context, log.Named("customer")),
		CategoryHandler: handlers.NewCategoryHandler(session.Context, log.Named("categories")),
		SearchHandler:   handlers.NewTextHandler(session.Search),
		CommentsHandler: handlers.NewTextHandler(session.Comments),
		OrderHandler:    handlers.NewOrderHandler(session.Orders, log.Named("orders")),
		Session:         session,
	}
}
