// Package cart holds the line items the agent is about to order.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/models"
	"github.com/diewo77/go-salesagent/internal/pricing"
)

// Store is the cart. Lines keep insertion order and are keyed by item code;
// every quantity is at least 1. All operations are safe for concurrent use
// and subscribers are notified after the lock is released.
type Store struct {
	resolver pricing.Resolver
	log      *zap.Logger

	mu    sync.Mutex
	lines []models.CartLineItem
	index map[string]int

	subs   map[int]func([]models.CartLineItem)
	nextID int
}

func NewStore(resolver pricing.Resolver, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		resolver: resolver,
		log:      log,
		index:    make(map[string]int),
		subs:     make(map[int]func([]models.CartLineItem)),
	}
}

// AddOrMergeItem adds quantity to an existing line with the same item code,
// refreshing its catalog fields from item, or appends a new line.
func (s *Store) AddOrMergeItem(item models.CartLineItem, quantity int) {
	s.mu.Lock()
	if i, ok := s.index[item.ItemCode]; ok {
		merged := item.Clone()
		merged.Quantity = clampQty(s.lines[i].Quantity + quantity)
		s.lines[i] = merged
		s.log.Debug("cart line merged", zap.String("item", item.ItemCode), zap.Int("quantity", merged.Quantity))
	} else {
		line := item.Clone()
		line.Quantity = clampQty(quantity)
		s.index[line.ItemCode] = len(s.lines)
		s.lines = append(s.lines, line)
		s.log.Debug("cart line added", zap.String("item", item.ItemCode), zap.Int("quantity", line.Quantity))
	}
	s.unlockAndNotify()
}

// UpdateQuantity sets the quantity of a line, clamped to 1. Unknown codes
// are ignored.
func (s *Store) UpdateQuantity(itemCode string, qty int) {
	s.mu.Lock()
	i, ok := s.index[itemCode]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = clampQty(qty)
	s.unlockAndNotify()
}

// RemoveItem deletes a line. Unknown codes are ignored.
func (s *Store) RemoveItem(itemCode string) {
	s.mu.Lock()
	i, ok := s.index[itemCode]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.reindexLocked()
	s.unlockAndNotify()
}

func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return
	}
	s.lines = nil
	s.index = make(map[string]int)
	s.unlockAndNotify()
}

// List returns a snapshot of the lines in insertion order.
func (s *Store) List() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) Get(itemCode string) (models.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[itemCode]
	if !ok {
		return models.CartLineItem{}, false
	}
	return s.lines[i].Clone(), true
}

// Totals recomputes prices and totals from the current contents.
func (s *Store) Totals() Totals {
	return ComputeTotals(s.List(), s.resolver.Time())
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *Store) Subscribe(fn func([]models.CartLineItem)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) unlockAndNotify() {
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	subs := make([]func([]models.CartLineItem), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() []models.CartLineItem {
	out := make([]models.CartLineItem, len(s.lines))
	for i, l := range s.lines {
		out[i] = l.Clone()
	}
	return out
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.lines))
	for i, l := range s.lines {
		s.index[l.ItemCode] = i
	}
}

func clampQty(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
