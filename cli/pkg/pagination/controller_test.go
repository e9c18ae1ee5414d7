package pagination

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	id string
}

func (p post) ItemID() string { return p.id }

func posts(ids ...string) []post {
	out := make([]post, len(ids))
	for i, id := range ids {
		out[i] = post{id: id}
	}
	return out
}

func ids(items []post) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.id
	}
	return out
}

// pagesFetcher serves fixed pages and counts calls
type pagesFetcher struct {
	pages map[int][]post
	calls atomic.Int32
}

func (f *pagesFetcher) fetch(_ context.Context, page int) ([]post, error) {
	f.calls.Add(1)
	return f.pages[page], nil
}

func TestNewDefaults(t *testing.T) {
	c := New(Options[post]{})

	assert.Equal(t, DefaultPageSize, c.opts.PageSize)
	assert.Equal(t, DefaultMaxPages, c.opts.MaxPages)

	s := c.State()
	assert.Empty(t, s.Items)
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Err)
}

func TestLoadMoreDeduplicatesAcrossPages(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{
		1: posts("a", "b", "c"),
		2: posts("c", "d"),
	}}
	c := New(Options[post]{PageSize: 3, OnLoadMore: f.fetch})

	require.True(t, c.LoadMore(context.Background()))
	assert.True(t, c.HasMore())
	assert.Equal(t, 2, c.Page())

	require.True(t, c.LoadMore(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(c.Items()))
	assert.False(t, c.HasMore())
	assert.Equal(t, 3, c.Page())
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestLoadMoreDeduplicatesWithinPage(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{1: posts("a", "a", "b")}}
	c := New(Options[post]{PageSize: 3, OnLoadMore: f.fetch})

	c.LoadMore(context.Background())

	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	// raw count equals the page size, so the source is not exhausted yet
	assert.True(t, c.HasMore())
}

func TestLoadMoreAllDuplicatePageAdvancesCursor(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{
		1: posts("a", "b"),
		2: posts("a", "b"),
		3: posts("c", "d"),
	}}
	c := New(Options[post]{PageSize: 2, OnLoadMore: f.fetch})

	require.True(t, c.LoadMore(context.Background()))
	require.True(t, c.LoadMore(context.Background()))
	// nothing new arrived but the cursor still moved past page 2
	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	assert.Equal(t, 3, c.Page())
	assert.True(t, c.HasMore())

	require.True(t, c.LoadMore(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(c.Items()))
	assert.EqualValues(t, 3, f.calls.Load())
}

func TestLoadMoreFailure(t *testing.T) {
	c := New(Options[post]{
		OnLoadMore: func(context.Context, int) ([]post, error) {
			return nil, errors.New("network error")
		},
	})

	require.True(t, c.LoadMore(context.Background()))

	s := c.State()
	assert.Equal(t, "network error", s.Err)
	assert.Empty(t, s.Items)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.Equal(t, 1, s.Page)
}

func TestLoadMoreClearsErrorOnRetry(t *testing.T) {
	fail := true
	c := New(Options[post]{
		PageSize: 2,
		OnLoadMore: func(context.Context, int) ([]post, error) {
			if fail {
				return nil, errors.New("timeout")
			}
			return posts("a", "b"), nil
		},
	})

	c.LoadMore(context.Background())
	require.Equal(t, "timeout", c.Err())

	fail = false
	c.LoadMore(context.Background())
	assert.Empty(t, c.Err())
	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	assert.Equal(t, 2, c.Page())
}

func TestLoadMoreEmptyPageExhausts(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{}}
	c := New(Options[post]{OnLoadMore: f.fetch})

	require.True(t, c.LoadMore(context.Background()))
	assert.False(t, c.HasMore())
	assert.Equal(t, 1, c.Page())

	for i := 0; i < 3; i++ {
		assert.False(t, c.LoadMore(context.Background()))
	}
	assert.EqualValues(t, 1, f.calls.Load())
	assert.False(t, c.HasMore())
}

func TestLoadMoreInFlightIsNoop(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	c := New(Options[post]{
		PageSize: 2,
		OnLoadMore: func(context.Context, int) ([]post, error) {
			calls.Add(1)
			close(started)
			<-release
			return posts("a", "b"), nil
		},
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.LoadMore(context.Background())
	}()

	<-started
	assert.True(t, c.IsLoading())

	before := c.State()
	assert.False(t, c.LoadMore(context.Background()))
	assert.Equal(t, before, c.State())

	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, c.IsLoading())
	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
}

func TestLoadMoreWithoutFetchFunction(t *testing.T) {
	c := New(Options[post]{})

	assert.False(t, c.LoadMore(context.Background()))
	assert.Equal(t, 1, c.Page())
	assert.True(t, c.HasMore())
}

func TestLoadMoreStopsAfterMaxPages(t *testing.T) {
	var calls atomic.Int32
	c := New(Options[post]{
		PageSize: 1,
		MaxPages: 2,
		OnLoadMore: func(_ context.Context, page int) ([]post, error) {
			calls.Add(1)
			return posts(fmt.Sprintf("p%d", page)), nil
		},
	})

	assert.True(t, c.LoadMore(context.Background()))
	assert.True(t, c.LoadMore(context.Background()))
	assert.False(t, c.LoadMore(context.Background()))

	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, []string{"p1", "p2"}, ids(c.Items()))
	assert.True(t, c.HasMore())
	assert.Equal(t, 3, c.Page())
}

func TestReset(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{1: posts("a")}}
	c := New(Options[post]{PageSize: 5, OnLoadMore: f.fetch})
	c.LoadMore(context.Background())
	require.False(t, c.HasMore())

	c.Reset()

	s := c.State()
	assert.Empty(t, s.Items)
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Err)
	assert.EqualValues(t, 1, f.calls.Load(), "reset must not fetch")

	// previously seen IDs are accepted again
	c.LoadMore(context.Background())
	assert.Equal(t, []string{"a"}, ids(c.Items()))
}

func TestRefreshReplacesState(t *testing.T) {
	c := New(Options[post]{
		PageSize: 10,
		OnLoadMore: func(context.Context, int) ([]post, error) {
			return posts("x"), nil
		},
	})
	c.items = posts("a", "b", "c", "d", "e")
	for _, p := range c.items {
		c.seen[p.id] = struct{}{}
	}
	c.page = 6

	c.Refresh(context.Background())

	s := c.State()
	assert.Equal(t, []string{"x"}, ids(s.Items))
	assert.Equal(t, 2, s.Page)
	assert.False(t, s.HasMore)
	assert.False(t, s.IsLoading)
}

func TestRefreshBypassesExhaustion(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{1: posts("a", "b")}}
	c := New(Options[post]{PageSize: 2, OnLoadMore: f.fetch})
	c.hasMore = false

	c.Refresh(context.Background())

	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	assert.True(t, c.HasMore())
	assert.Equal(t, 2, c.Page())
}

func TestRefreshFailureMarksExhausted(t *testing.T) {
	c := New(Options[post]{
		OnLoadMore: func(context.Context, int) ([]post, error) {
			return nil, errors.New("offline")
		},
	})

	c.Refresh(context.Background())

	s := c.State()
	assert.Equal(t, "offline", s.Err)
	assert.False(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.Equal(t, 1, s.Page)
	assert.False(t, c.LoadMore(context.Background()))
}

func TestRefreshEmptyKeepsCursor(t *testing.T) {
	f := &pagesFetcher{pages: map[int][]post{}}
	c := New(Options[post]{OnLoadMore: f.fetch})

	c.Refresh(context.Background())

	assert.Empty(t, c.Items())
	assert.Equal(t, 1, c.Page())
	assert.False(t, c.HasMore())
}

func TestStaleLoadMoreDroppedAfterRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	c := New(Options[post]{
		PageSize: 2,
		OnLoadMore: func(_ context.Context, page int) ([]post, error) {
			first := false
			once.Do(func() { first = true })
			if first {
				close(started)
				<-release
				return posts("old1", "old2"), nil
			}
			return posts("new1", "new2"), nil
		},
	})

	done := make(chan bool)
	go func() { done <- c.LoadMore(context.Background()) }()

	<-started
	c.Refresh(context.Background())
	require.Equal(t, []string{"new1", "new2"}, ids(c.Items()))

	close(release)
	assert.True(t, <-done)

	assert.Equal(t, []string{"new1", "new2"}, ids(c.Items()))
	assert.Equal(t, 2, c.Page())
	assert.False(t, c.IsLoading())
}

func TestNoDuplicatesWithRandomOverlap(t *testing.T) {
	const pageSize = 8
	rng := rand.New(rand.NewSource(42))

	c := New(Options[post]{
		PageSize: pageSize,
		MaxPages: 20,
		OnLoadMore: func(_ context.Context, page int) ([]post, error) {
			out := make([]post, pageSize)
			for i := range out {
				// IDs drawn from a window that overlaps neighbouring pages
				out[i] = post{id: fmt.Sprintf("%d", (page-1)*pageSize/2+rng.Intn(pageSize))}
			}
			return out, nil
		},
	})

	for c.LoadMore(context.Background()) {
	}

	seen := make(map[string]bool)
	for _, p := range c.Items() {
		assert.False(t, seen[p.id], "duplicate id %s", p.id)
		seen[p.id] = true
	}
	assert.NotEmpty(t, seen)
	assert.Equal(t, 21, c.Page())
}

func TestPanickingFetchReleasesLoading(t *testing.T) {
	explode := true
	c := New(Options[post]{
		PageSize: 2,
		OnLoadMore: func(_ context.Context, page int) ([]post, error) {
			if explode {
				panic("nil map write")
			}
			return posts(fmt.Sprintf("p%d-a", page), fmt.Sprintf("p%d-b", page)), nil
		},
	})
	ctx := context.Background()

	assert.NotPanics(t, func() { require.True(t, c.LoadMore(ctx)) })
	s := c.State()
	assert.False(t, s.IsLoading)
	assert.Contains(t, s.Err, "panicked")
	assert.Equal(t, 1, s.Page)

	assert.NotPanics(t, func() { c.Refresh(ctx) })
	assert.False(t, c.IsLoading())
	assert.Contains(t, c.Err(), "panicked")

	explode = false
	c.Refresh(ctx)
	require.True(t, c.LoadMore(ctx))
	assert.Equal(t, []string{"p1-a", "p1-b", "p2-a", "p2-b"}, ids(c.Items()))
	assert.Empty(t, c.Err())
}
