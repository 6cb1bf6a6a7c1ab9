package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/mytunes/internal/shared"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
	n   int
}

func (f *fakePinger) PingContext(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return f.err
}

func (f *fakePinger) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestController(t *testing.T) {
	errDown := errors.New("connection refused")

	t.Run("starts available", func(t *testing.T) {
		c := NewController()
		assert.True(t, c.Available())
		assert.Equal(t, Available, c.State())
		assert.Equal(t, "available", c.State().String())
	})

	t.Run("starts unavailable when asked", func(t *testing.T) {
		c := NewController(StartUnavailable(errDown))
		assert.False(t, c.Available())
		assert.ErrorIs(t, c.Status().Cause, errDown)
	})

	t.Run("first failure is sticky", func(t *testing.T) {
		c := NewController()

		assert.True(t, c.MarkUnavailable(errDown))
		assert.False(t, c.Available())

		assert.False(t, c.MarkUnavailable(errors.New("later")), "second failure must not re-transition")
		assert.ErrorIs(t, c.Status().Cause, errDown, "first cause is kept")
	})

	t.Run("successful probe does not revert", func(t *testing.T) {
		p := &fakePinger{}
		c := NewController(WithPinger(p))
		c.MarkUnavailable(errDown)

		require.NoError(t, c.Probe(context.Background()))
		assert.False(t, c.Available())
		assert.Equal(t, 1, p.n)
	})

	t.Run("failed probe demotes", func(t *testing.T) {
		p := &fakePinger{err: errDown}
		c := NewController(WithPinger(p))

		assert.ErrorIs(t, c.Probe(context.Background()), errDown)
		assert.False(t, c.Available())
	})

	t.Run("probe without pinger", func(t *testing.T) {
		c := NewController()
		assert.ErrorIs(t, c.Probe(context.Background()), shared.ErrMissingPinger)
		assert.ErrorIs(t, c.Recheck(context.Background()), shared.ErrMissingPinger)
		assert.True(t, c.Available(), "missing pinger is not a backend failure")
	})

	t.Run("explicit reset restores", func(t *testing.T) {
		c := NewController()
		c.MarkUnavailable(errDown)
		c.Reset()
		assert.True(t, c.Available())
		assert.NoError(t, c.Status().Cause)
	})

	t.Run("recheck restores only on success", func(t *testing.T) {
		p := &fakePinger{err: errDown}
		c := NewController(WithPinger(p))
		c.MarkUnavailable(errDown)

		assert.Error(t, c.Recheck(context.Background()))
		assert.False(t, c.Available())

		p.set(nil)
		require.NoError(t, c.Recheck(context.Background()))
		assert.True(t, c.Available())
	})

	t.Run("on change hook", func(t *testing.T) {
		var seen []Status
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		c := NewController(
			WithClock(func() time.Time { return at }),
			WithOnChange(func(s Status) { seen = append(seen, s) }),
		)

		c.MarkUnavailable(errDown)
		c.MarkUnavailable(errDown)
		c.Reset()
		c.Reset()

		require.Len(t, seen, 2)
		assert.Equal(t, Unavailable, seen[0].State)
		assert.Equal(t, at, seen[0].Since)
		assert.Equal(t, Available, seen[1].State)
	})

	t.Run("concurrent use", func(t *testing.T) {
		c := NewController()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					c.MarkUnavailable(errDown)
				}
				_ = c.Available()
				_ = c.Status()
			}(i)
		}
		wg.Wait()
		assert.False(t, c.Available())
	})
}
