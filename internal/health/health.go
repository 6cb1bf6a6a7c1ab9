// Package health tracks whether the primary backend may be used.
//
// The [Controller] starts in [Available] and moves to [Unavailable] on the first reported failure.
// The transition is sticky: nothing reverts it except an explicit [Controller.Reset] or a successful
// [Controller.Recheck]. A plain [Controller.Probe] can only ever demote the primary.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/mytunes/internal/shared"
)

// State is the health of the primary backend.
type State int

const (
	Available State = iota
	Unavailable
)

func (s State) String() string {
	switch s {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pinger is a low-level reachability check. [*sql.DB] satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is a point-in-time view of the controller.
type Status struct {
	State State
	Since time.Time
	Cause error
}

// Controller owns the primary backend's health state.
type Controller struct {
	mu       sync.RWMutex
	state    State
	since    time.Time
	cause    error
	pinger   Pinger
	onChange func(Status)
	now      func() time.Time
}

// Option configures a [Controller].
type Option func(*Controller)

// WithPinger sets the check used by [Controller.Probe] and [Controller.Recheck].
func WithPinger(p Pinger) Option {
	return func(c *Controller) { c.pinger = p }
}

// WithOnChange registers a hook called after every state transition.
// The hook runs without the controller lock held.
func WithOnChange(fn func(Status)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// StartUnavailable builds the controller already demoted, e.g. when no primary is configured.
func StartUnavailable(cause error) Option {
	return func(c *Controller) {
		c.state = Unavailable
		c.cause = cause
	}
}

// NewController creates a controller, available unless told otherwise.
func NewController(opts ...Option) *Controller {
	c := &Controller{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.since = c.now()
	return c
}

// Available reports whether the primary backend should be tried.
func (c *Controller) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == Available
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Status returns the current state together with when and why it was entered.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{State: c.state, Since: c.since, Cause: c.cause}
}

// MarkUnavailable records a primary failure. Repeated calls keep the first cause.
// It reports whether this call caused the transition.
func (c *Controller) MarkUnavailable(cause error) bool {
	return c.transition(Unavailable, cause)
}

// Reset returns the controller to [Available].
func (c *Controller) Reset() {
	c.transition(Available, nil)
}

// Probe pings the primary. A failed ping marks it unavailable; a successful ping never restores it.
func (c *Controller) Probe(ctx context.Context) error {
	if c.pinger == nil {
		return shared.ErrMissingPinger
	}
	if err := c.pinger.PingContext(ctx); err != nil {
		c.MarkUnavailable(err)
		return err
	}
	return nil
}

// Recheck is the explicit health re-check: it probes and resets to [Available] on success.
func (c *Controller) Recheck(ctx context.Context) error {
	if err := c.Probe(ctx); err != nil {
		return err
	}
	c.Reset()
	return nil
}

func (c *Controller) transition(to State, cause error) bool {
	c.mu.Lock()
	if c.state == to {
		c.mu.Unlock()
		return false
	}
	c.state = to
	c.cause = cause
	c.since = c.now()
	status := Status{State: c.state, Since: c.since, Cause: c.cause}
	hook := c.onChange
	c.mu.Unlock()

	if hook != nil {
		hook(status)
	}
	return true
}
