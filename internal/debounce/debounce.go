// Package debounce turns a rapidly changing input into a stable value that
// only settles after a quiet period.
package debounce

import (
	"sync"
	"time"
)

type StateKind int

const (
	Idle StateKind = iota
	PendingSettle
)

func (k StateKind) String() string {
	if k == PendingSettle {
		return "pending_settle"
	}
	return "idle"
}

func (k StateKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// State reports whether a settle is scheduled and when it will fire.
type State struct {
	Kind     StateKind `json:"kind"`
	Deadline time.Time `json:"deadline,omitempty"`
}

// Channel holds a raw value, updated immediately, and a settled value that
// follows raw once no write has arrived for the configured delay. A new
// write restarts the delay. After Close no settle callback fires.
type Channel[T comparable] struct {
	delay time.Duration

	mu       sync.Mutex
	raw      T
	settled  T
	timer    *time.Timer
	deadline time.Time
	// bumped on every write, clear and close; a timer only applies its
	// value when the generation it was armed with is still current
	gen    uint64
	closed bool

	subs   map[int]func(T)
	nextID int
}

// New creates a channel with the given quiet period. A non-positive delay
// settles every write immediately.
func New[T comparable](delay time.Duration) *Channel[T] {
	return &Channel[T]{delay: delay, subs: make(map[int]func(T))}
}

func (c *Channel[T]) Delay() time.Duration { return c.delay }

// SetRaw updates raw and (re)arms the settle timer. Ignored after Close.
func (c *Channel[T]) SetRaw(v T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.raw = v
	c.gen++
	c.stopLocked()
	if c.delay <= 0 {
		c.settled = v
		subs := c.subscribersLocked()
		c.mu.Unlock()
		notify(subs, v)
		return
	}
	gen := c.gen
	c.deadline = time.Now().Add(c.delay)
	c.timer = time.AfterFunc(c.delay, func() { c.settle(gen) })
	c.mu.Unlock()
}

func (c *Channel[T]) settle(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.deadline = time.Time{}
	c.settled = c.raw
	v := c.settled
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, v)
}

func (c *Channel[T]) Raw() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

func (c *Channel[T]) Settled() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// Clear resets raw and settled to the zero value at once and cancels any
// pending settle.
func (c *Channel[T]) Clear() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	var zero T
	c.gen++
	c.stopLocked()
	c.raw, c.settled = zero, zero
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, zero)
}

// Flush settles a pending raw value immediately and returns the settled
// value.
func (c *Channel[T]) Flush() T {
	c.mu.Lock()
	if c.closed || c.timer == nil {
		v := c.settled
		c.mu.Unlock()
		return v
	}
	c.gen++
	c.stopLocked()
	c.settled = c.raw
	v := c.settled
	subs := c.subscribersLocked()
	c.mu.Unlock()
	notify(subs, v)
	return v
}

func (c *Channel[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return State{Kind: Idle}
	}
	return State{Kind: PendingSettle, Deadline: c.deadline}
}

// Subscribe registers fn for settle events. fn runs outside the channel's
// lock, on the timer goroutine for delayed settles.
func (c *Channel[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close cancels any pending settle and drops subscribers. The values stay
// readable.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.stopLocked()
	c.subs = make(map[int]func(T))
}

func (c *Channel[T]) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.deadline = time.Time{}
}

func (c *Channel[T]) subscribersLocked() []func(T) {
	if len(c.subs) == 0 {
		return nil
	}
	out := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notify[T any](subs []func(T), v T) {
	for _, fn := range subs {
		fn(v)
	}
}
