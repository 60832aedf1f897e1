// Package controller drives a page view's posts pipeline: one load, then
// sort and render on every criterion change.
package controller

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/insights/internal/config"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/render"
	"github.com/debemdeboas/insights/internal/sorting"
)

var controllerLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	controllerLogger = l
}

var (
	ErrNotReady           = errors.New("posts are not loaded")
	ErrSortingUnavailable = errors.New("sorting is unavailable")
	ErrInitialized        = errors.New("controller already initialized")
	ErrClosed             = errors.New("controller torn down")
)

type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Loader performs the single read of a page view.
type Loader interface {
	Load(ctx context.Context) (model.Collection, error)
}

// Selector is the sort criterion control of a page.
type Selector struct {
	ID       string
	Selected model.Criterion
}

// Anchors are the page elements the controller renders into. A nil field
// means the page does not have that element.
type Anchors struct {
	List     render.Target
	Selector *Selector
}

type Options struct {
	Profile render.Profile
	// Sortable pages expect a Selector. Pages that are not sortable always
	// order by DefaultCriterion.
	Sortable         bool
	DefaultCriterion model.Criterion
	// Limit caps the number of rendered posts; zero renders all of them.
	Limit int
	// EmptyText overrides the profile's empty state.
	EmptyText string
	// ErrorText builds the inline message shown when loading fails.
	ErrorText func(err error) string
}

// Controller owns the collection of one page view. It is safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	loader  Loader
	anchors Anchors
	opts    Options

	state     State
	closed    bool
	posts     model.Collection
	criterion model.Criterion
	fragment  template.HTML
	err       error
}

func New(loader Loader, anchors Anchors, opts Options) *Controller {
	if opts.DefaultCriterion == "" {
		opts.DefaultCriterion = model.DefaultCriterion
	}
	if opts.EmptyText == "" {
		opts.EmptyText = opts.Profile.EmptyText()
	}
	if opts.ErrorText == nil {
		opts.ErrorText = func(err error) string {
			return fmt.Sprintf(config.ErrArticlesLoadFmt, err.Error())
		}
	}
	return &Controller{
		loader:  loader,
		anchors: anchors,
		opts:    opts,
		state:   Idle,
	}
}

// Init performs the page view's single load and first render. A page
// without a list container is left Idle and nil is returned. The returned
// error is the load failure, which has already been rendered.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrClosed
	case c.state != Idle:
		return ErrInitialized
	}

	if c.anchors.List == nil {
		controllerLogger.Error().Msg(config.ErrMissingContainer)
		return nil
	}

	if c.opts.Sortable && c.anchors.Selector == nil {
		controllerLogger.Warn().Msg(config.ErrMissingSelector)
		c.replace(render.Notice(config.ErrSortingDisabled))
	}

	c.state = Loading
	posts, err := c.loader.Load(ctx)
	if err != nil {
		c.state = Failed
		c.err = err
		controllerLogger.Error().Err(err).Msg("Failed to load posts")
		c.replace(render.Error(c.opts.ErrorText(err)))
		return err
	}

	c.posts = posts
	c.criterion = c.initialCriterion()
	c.state = Ready
	c.draw()

	controllerLogger.Debug().
		Int("posts", posts.Len()).
		Str("criterion", string(c.criterion)).
		Msg("Page view ready")
	return nil
}

func (c *Controller) initialCriterion() model.Criterion {
	if sel := c.anchors.Selector; sel != nil && sel.Selected != "" {
		return sel.Selected
	}
	if c.opts.Sortable && c.anchors.Selector == nil {
		// Fetched order
		return ""
	}
	return c.opts.DefaultCriterion
}

// SelectCriterion re-sorts and re-renders the loaded collection. It never
// reloads. An unknown criterion renders the posts in fetched order.
func (c *Controller) SelectCriterion(criterion model.Criterion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state != Ready {
		return fmt.Errorf("%w (state %s)", ErrNotReady, c.state)
	}
	if c.anchors.Selector == nil {
		controllerLogger.Warn().Str("criterion", string(criterion)).Msg("Criterion change ignored, no sort selector")
		return ErrSortingUnavailable
	}

	c.anchors.Selector.Selected = criterion
	c.criterion = criterion
	c.draw()
	return nil
}

func (c *Controller) draw() {
	ordered := []model.Post(c.posts)
	switch {
	case c.opts.Limit > 0 && c.criterion == model.NewestFirst:
		ordered = sorting.Latest(c.posts, c.opts.Limit)
	case c.criterion != "":
		ordered = sorting.Sort(c.posts, c.criterion)
	}
	if c.opts.Limit > 0 && len(ordered) > c.opts.Limit {
		ordered = ordered[:c.opts.Limit]
	}
	c.replace(render.ListWithEmpty(ordered, c.opts.Profile, c.opts.EmptyText))
}

func (c *Controller) replace(fragment template.HTML) {
	c.fragment = fragment
	c.anchors.List.Replace(fragment)
}

// Teardown releases the collection. The controller cannot be reused.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.posts = nil
	c.anchors = Anchors{}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Criterion is the criterion of the latest render; empty means fetched order.
func (c *Controller) Criterion() model.Criterion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criterion
}

// Fragment returns the latest rendered list fragment.
func (c *Controller) Fragment() template.HTML {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fragment
}

// Err returns the load failure of a Failed controller.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Len returns the number of loaded posts.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posts.Len()
}
