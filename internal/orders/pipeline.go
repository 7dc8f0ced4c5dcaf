// Package orders validates the cart, builds the order payload and submits it.
package orders

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/apperr"
	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/pricing"
)

type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Transition is published on every state change. DocEntry is set when
// entering Succeeded, Err when entering Failed.
type Transition struct {
	From     State
	To       State
	DocEntry models.DocEntry
	Err      error
}

// Cart is the part of the cart store the pipeline needs.
type Cart interface {
	List() []models.CartLineItem
	Clear()
}

// CustomerSource provides the customer being ordered for.
type CustomerSource interface {
	LoadSelectedCustomer(ctx context.Context) (models.SelectedCustomer, bool)
}

// Comments is the order comments channel.
type Comments interface {
	Flush() string
	Clear()
}

// Submitter sends the order to the backend.
type Submitter interface {
	SubmitOrder(ctx context.Context, payload models.OrderPayload) (models.DocEntry, error)
}

// Notifier receives the outcome of a submission, e.g. for a toast and
// haptic feedback.
type Notifier interface {
	OrderSucceeded(docEntry models.DocEntry)
	OrderFailed(err error)
}

// Pipeline runs one submission at a time. A failed submission leaves the
// cart and comments untouched so the agent can retry.
type Pipeline struct {
	cart      Cart
	customers CustomerSource
	comments  Comments
	submitter Submitter
	notifier  Notifier
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger

	mu        sync.Mutex
	state     State
	lastEntry models.DocEntry
	lastErr   error
	subs      map[int]func(Transition)
	nextID    int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithNotifier sets the outcome notifier.
func WithNotifier(n Notifier) Option { return func(p *Pipeline) { p.notifier = n } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(p *Pipeline) { p.log = l } }

// NewPipeline creates a pipeline whose order dates are taken in loc.
func NewPipeline(cart Cart, customers CustomerSource, comments Comments, submitter Submitter, loc *time.Location, opts ...Option) *Pipeline {
	p := &Pipeline{
		cart:      cart,
		customers: customers,
		comments:  comments,
		submitter: submitter,
		loc:       loc,
		now:       time.Now,
		log:       zap.NewNop(),
		subs:      make(map[int]func(Transition)),
	}
	for _, o := range opts {
		o(p)
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	return p
}

// Submit validates the cart, sends the order and applies the outcome. It
// returns apperr.ErrSubmissionInProgress without side effects while
// another submission is running.
func (p *Pipeline) Submit(ctx context.Context) (models.DocEntry, error) {
	p.mu.Lock()
	if p.state != Idle {
		p.mu.Unlock()
		return "", apperr.ErrSubmissionInProgress
	}
	p.state = Validating
	subs := p.subscribersLocked()
	p.mu.Unlock()
	notify(subs, Transition{From: Idle, To: Validating})

	cust, ok := p.customers.LoadSelectedCustomer(ctx)
	if !ok || strings.TrimSpace(cust.CardCode) == "" {
		return "", p.fail(apperr.NewValidation(apperr.CodeMissingCustomer))
	}
	lines := p.cart.List()
	if len(lines) == 0 {
		return "", p.fail(apperr.NewValidation(apperr.CodeEmptyCart))
	}
	for _, l := range lines {
		if strings.TrimSpace(l.ItemCode) == "" || l.Quantity < 1 {
			return "", p.fail(apperr.NewValidation(apperr.CodeMissingOrderData))
		}
	}

	payload := BuildPayload(cust, lines, p.comments.Flush(), p.now(), p.loc)
	p.transition(Transition{To: Submitting})
	log := p.log.With(zap.String("card_code", cust.CardCode), zap.Int("lines", len(lines)))
	log.Info("submitting order", zap.String("doc_date", payload.DocDate))

	entry, err := p.submitter.SubmitOrder(ctx, payload)
	if err != nil {
		log.Warn("order submission failed", zap.Error(err))
		return "", p.fail(err)
	}

	p.cart.Clear()
	p.comments.Clear()
	p.mu.Lock()
	p.lastEntry = entry
	p.lastErr = nil
	p.mu.Unlock()
	log.Info("order submitted", zap.String("doc_entry", string(entry)))
	p.transition(Transition{To: Succeeded, DocEntry: entry})
	if p.notifier != nil {
		p.notifier.OrderSucceeded(entry)
	}
	p.transition(Transition{To: Idle})
	return entry, nil
}

func (p *Pipeline) fail(err error) error {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	p.transition(Transition{To: Failed, Err: err})
	if p.notifier != nil {
		p.notifier.OrderFailed(err)
	}
	p.transition(Transition{To: Idle})
	return err
}

func (p *Pipeline) transition(t Transition) {
	p.mu.Lock()
	t.From = p.state
	p.state = t.To
	subs := p.subscribersLocked()
	p.mu.Unlock()
	notify(subs, t)
}

func (p *Pipeline) subscribersLocked() []func(Transition) {
	subs := make([]func(Transition), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Transition), t Transition) {
	for _, fn := range subs {
		fn(t)
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastDocEntry is the identifier of the last successful order.
func (p *Pipeline) LastDocEntry() (models.DocEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastEntry, p.lastEntry != ""
}

// LastError is the reason of the last failed submission, cleared by a
// successful one.
func (p *Pipeline) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Subscribe registers fn for state transitions.
func (p *Pipeline) Subscribe(fn func(Transition)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// BusinessDate formats the calendar date of now in loc.
func BusinessDate(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(models.DateLayout)
}

// BuildPayload maps the cart lines to order lines priced at now. PriceList
// carries the undiscounted base price, PriceAfterVAT the tier-resolved one.
func BuildPayload(cust models.SelectedCustomer, lines []models.CartLineItem, comments string, now time.Time, loc *time.Location) models.OrderPayload {
	at := now.In(loc)
	date := at.Format(models.DateLayout)
	out := models.OrderPayload{
		CardCode:   cust.CardCode,
		DocDate:    date,
		DocDueDate: date,
		Comments:   comments,
		Lines:      make([]models.OrderLine, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, models.OrderLine{
			ItemCode:      l.ItemCode,
			Quantity:      l.Quantity,
			PriceList:     l.BasePrice,
			PriceAfterVAT: pricing.ResolvePrice(l, at),
			TaxCode:       l.TaxCode,
		})
	}
	return out
}
