package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/cart"
	"github.com/diewo77/go-salesagent/internal/catalog"
	"github.com/diewo77/go-salesagent/internal/config"
	"github.com/diewo77/go-salesagent/internal/debounce"
	"github.com/diewo77/go-salesagent/internal/kv"
	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/orders"
	"github.com/diewo77/go-salesagent/internal/pricing"
)

// Backend is the remote API used by a session.
type Backend interface {
	catalog.CategorySource
	orders.Submitter
}

// AgentSession wires the cart, the text channels, the context cache and
// the order pipeline of one sales agent.
type AgentSession struct {
	Cart     *cart.Store
	Search   *debounce.Channel[string]
	Comments *debounce.Channel[string]
	Context  *catalog.ContextCache
	Orders   *orders.Pipeline

	log *zap.Logger
}

// SessionOptions holds what NewAgentSession needs besides the backend and store.
type SessionOptions struct {
	Location         *time.Location
	DefaultPriceList string
	SearchDelay      time.Duration
	CommentsDelay    time.Duration
	Now              func() time.Time
	Notifier         orders.Notifier
	Logger           *zap.Logger
}

// OptionsFromConfig fills SessionOptions from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, loc *time.Location, log *zap.Logger) SessionOptions {
	return SessionOptions{
		Location:         loc,
		DefaultPriceList: cfg.Business.DefaultPriceList,
		SearchDelay:      cfg.Debounce.Search,
		CommentsDelay:    cfg.Debounce.Comments,
		Logger:           log,
	}
}

func NewAgentSession(store kv.Store, api Backend, opts SessionOptions) *AgentSession {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = &LogNotifier{Log: log}
	}

	s := &AgentSession{
		Cart:     cart.NewStore(pricing.Resolver{Now: func() time.Time { return now().In(loc) }}, log.Named("cart")),
		Search:   debounce.New[string](opts.SearchDelay),
		Comments: debounce.New[string](opts.CommentsDelay),
		Context:  catalog.NewContextCache(store, api, opts.DefaultPriceList, log.Named("catalog")),
		log:      log,
	}
	s.Orders = orders.NewPipeline(s.Cart, s.Context, s.Comments, api, loc,
		orders.WithNotifier(notifier),
		orders.WithClock(now),
		orders.WithLogger(log.Named("orders")),
	)
	s.Search.Subscribe(func(q string) {
		log.Debug("search settled", zap.String("query", q))
	})
	return s
}

// Close stops the pending text channel timers.
func (s *AgentSession) Close() {
	s.Search.Close()
	s.Comments.Close()
}

// LogNotifier reports order outcomes to the log.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) OrderSucceeded(docEntry models.DocEntry) {
	n.Log.Info("order succeeded", zap.String("doc_entry", string(docEntry)))
}

func (n *LogNotifier) OrderFailed(err error) {
	n.Log.Warn("order failed", zap.Error(err))
}
