// Package pageview keeps the controllers of open page views, keyed by an
// opaque id embedded in the rendered page.
package pageview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/insights/internal/cache"
	"github.com/debemdeboas/insights/internal/controller"
)

var viewLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	viewLogger = l
}

type ViewID string

type view struct {
	ctrl     *controller.Controller
	lastSeen atomic.Int64
}

// Registry holds open page views. Views idle for longer than the idle
// timeout are torn down by Sweep, and at most maxOpen views are kept.
type Registry struct {
	views   *cache.Cache[ViewID, *view]
	idle    time.Duration
	maxOpen int
	now     func() time.Time

	// Serializes Open so eviction and insertion respect maxOpen.
	openMu sync.Mutex
}

// NewRegistry returns a registry. A maxOpen of zero or less means no cap.
func NewRegistry(idle time.Duration, maxOpen int) *Registry {
	return &Registry{
		views:   cache.NewCache[ViewID, *view](),
		idle:    idle,
		maxOpen: maxOpen,
		now:     time.Now,
	}
}

// Open registers ctrl and returns the id of its page view. When the
// registry is full the least recently seen view is torn down first.
func (r *Registry) Open(ctrl *controller.Controller) ViewID {
	r.openMu.Lock()
	defer r.openMu.Unlock()

	for r.maxOpen > 0 && r.views.Len() >= r.maxOpen {
		if !r.evictOldest() {
			break
		}
	}

	id := ViewID(uuid.New().String())
	v := &view{ctrl: ctrl}
	v.lastSeen.Store(r.now().UnixNano())
	r.views.Set(id, v)

	viewLogger.Debug().Str("view", string(id)).Msg("Page view opened")
	return id
}

func (r *Registry) evictOldest() bool {
	var (
		oldest   ViewID
		oldestAt int64
		found    bool
	)
	r.views.Range(func(id ViewID, v *view) bool {
		if seen := v.lastSeen.Load(); !found || seen < oldestAt {
			oldest, oldestAt, found = id, seen, true
		}
		return true
	})
	if !found {
		return false
	}

	// A concurrent Close may have taken it already; the loop in Open
	// re-checks the size either way.
	if v, ok := r.views.Take(oldest); ok {
		v.ctrl.Teardown()
		viewLogger.Debug().Str("view", string(oldest)).Msg("Page view evicted, registry full")
	}
	return true
}

// Get returns the controller of an open view and marks the view as active.
func (r *Registry) Get(id ViewID) (*controller.Controller, error) {
	v, ok := r.views.Get(id)
	if !ok {
		return nil, fmt.Errorf("page view %q: %w", id, ErrUnknownView)
	}
	v.lastSeen.Store(r.now().UnixNano())
	return v.ctrl, nil
}

// Close tears the view down. Closing an unknown view is not an error.
func (r *Registry) Close(id ViewID) bool {
	v, ok := r.views.Take(id)
	if !ok {
		return false
	}
	v.ctrl.Teardown()
	viewLogger.Debug().Str("view", string(id)).Msg("Page view closed")
	return true
}

// Sweep tears down idle views and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle).UnixNano()
	expired := r.views.DeleteFunc(func(_ ViewID, v *view) bool {
		return v.lastSeen.Load() < cutoff
	})
	for _, v := range expired {
		v.ctrl.Teardown()
	}
	if len(expired) > 0 {
		viewLogger.Debug().Int("expired", len(expired)).Int("open", r.views.Len()).Msg("Swept idle page views")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Len() int {
	return r.views.Len()
}
