package pagination

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	// DefaultPageSize is the expected number of items per page
	DefaultPageSize = 10

	// DefaultMaxPages bounds how many pages a single controller will fetch
	DefaultMaxPages = 50
)

// Item is anything the controller can deduplicate
type Item interface {
	ItemID() string
}

// FetchFunc returns the items of one 1-based page
type FetchFunc[T Item] func(ctx context.Context, page int) ([]T, error)

// Options configures a Controller
type Options[T Item] struct {
	// PageSize is only used to detect a short (final) page
	PageSize int

	// MaxPages makes LoadMore a no-op once the cursor passes it
	MaxPages int

	// OnLoadMore fetches a page. LoadMore does nothing while it is nil.
	OnLoadMore FetchFunc[T]

	// Logger receives no-op and failure diagnostics (discarded when nil)
	Logger *log.Logger
}

// State is a point-in-time snapshot of a Controller
type State[T Item] struct {
	Items     []T    `json:"items"`
	Page      int    `json:"page"`
	HasMore   bool   `json:"has_more"`
	IsLoading bool   `json:"is_loading"`
	Err       string `json:"error,omitempty"`
}

// Controller accumulates pages from OnLoadMore.
//
// At most one fetch is outstanding per generation: LoadMore refuses to start
// while another fetch is in flight. Reset and Refresh start a new generation,
// and results of fetches from an older generation are dropped when they
// settle.
type Controller[T Item] struct {
	mu   sync.Mutex
	opts Options[T]
	log  *log.Logger

	items   []T
	seen    map[string]struct{}
	page    int
	hasMore bool
	loading bool
	err     string
	gen     uint64
}

// New creates a controller with an empty item list positioned at page 1
func New[T Item](opts Options[T]) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	l := opts.Logger
	if l == nil {
		l = log.New(io.Discard)
	}

	c := &Controller[T]{
		opts: opts,
		log:  l.WithPrefix("pagination"),
	}
	c.resetLocked()
	return c
}

// LoadMore fetches the next page and appends its unseen items.
//
// It returns false without touching state when there is no fetch function,
// a fetch is already in flight, the source is exhausted, or MaxPages has been
// passed. Otherwise it blocks until the fetch settles and returns true; a
// failed fetch is reported through Err, never as a return value.
func (c *Controller[T]) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	switch {
	case c.opts.OnLoadMore == nil:
		c.mu.Unlock()
		c.log.Debug("load more skipped", "reason", "no fetch function")
		return false
	case c.loading:
		c.mu.Unlock()
		c.log.Debug("load more skipped", "reason", "fetch in flight")
		return false
	case !c.hasMore:
		c.mu.Unlock()
		c.log.Debug("load more skipped", "reason", "exhausted")
		return false
	case c.page > c.opts.MaxPages:
		c.mu.Unlock()
		c.log.Debug("load more skipped", "reason", "max pages reached", "max_pages", c.opts.MaxPages)
		return false
	}

	c.loading = true
	c.err = ""
	page := c.page
	gen := c.gen
	fetch := c.opts.OnLoadMore
	c.mu.Unlock()

	c.log.Debug("loading page", "page", page)
	items, err := call(ctx, fetch, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("dropping stale page", "page", page)
		return true
	}

	switch {
	case err != nil:
		c.err = err.Error()
		c.log.Warn("page fetch failed", "page", page, "err", err)
	case len(items) == 0:
		c.hasMore = false
	default:
		added := c.appendUnseenLocked(items)
		c.page++
		if len(items) < c.opts.PageSize {
			c.hasMore = false
		}
		c.log.Debug("page loaded", "page", page, "received", len(items), "added", added)
	}

	c.loading = false
	return true
}

// call runs fetch, turning a panic into an error so the loading flag is
// always released
func call[T Item](ctx context.Context, fetch FetchFunc[T], page int) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("page %d fetch panicked: %v", page, r)
		}
	}()
	return fetch(ctx, page)
}

// Reset clears all items and flags and rewinds to page 1 without fetching
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Refresh resets the controller and fetches page 1 regardless of the guards
// LoadMore applies. A failed refresh marks the source exhausted so the
// caller has to refresh again explicitly.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.resetLocked()
	fetch := c.opts.OnLoadMore
	if fetch == nil {
		c.mu.Unlock()
		c.log.Debug("refresh skipped", "reason", "no fetch function")
		return
	}
	c.loading = true
	gen := c.gen
	c.mu.Unlock()

	c.log.Debug("refreshing")
	items, err := call(ctx, fetch, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("dropping stale refresh")
		return
	}

	if err != nil {
		c.err = err.Error()
		c.hasMore = false
		c.log.Warn("refresh failed", "err", err)
	} else {
		c.appendUnseenLocked(items)
		if len(items) > 0 {
			c.page = 2
		}
		if len(items) < c.opts.PageSize {
			c.hasMore = false
		}
	}

	c.loading = false
}

// State returns a snapshot safe to hand to a renderer
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Items:     c.itemsLocked(),
		Page:      c.page,
		HasMore:   c.hasMore,
		IsLoading: c.loading,
		Err:       c.err,
	}
}

// Items returns a copy of the accumulated items in arrival order
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

// Len returns the number of accumulated items
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Page returns the next page LoadMore will request
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// HasMore reports whether further pages may exist
func (c *Controller[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// IsLoading reports whether a fetch is in flight
func (c *Controller[T]) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the message of the last failed fetch, or ""
func (c *Controller[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller[T]) resetLocked() {
	c.items = nil
	c.seen = make(map[string]struct{})
	c.page = 1
	c.hasMore = true
	c.loading = false
	c.err = ""
	c.gen++
}

// appendUnseenLocked appends items whose ID has not been seen yet, including
// repeats inside the same page, and returns how many were added.
func (c *Controller[T]) appendUnseenLocked(items []T) int {
	added := 0
	for _, item := range items {
		id := item.ItemID()
		if _, ok := c.seen[id]; ok {
			continue
		}
		c.seen[id] = struct{}{}
		c.items = append(c.items, item)
		added++
	}
	return added
}

func (c *Controller[T]) itemsLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}
