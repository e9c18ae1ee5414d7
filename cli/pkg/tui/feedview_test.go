package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	total  int
	fail   bool
	loaded []int

	// gates[i], when set, holds the i-th fetch until it is closed
	mu    sync.Mutex
	gates []chan struct{}
}

func (f *fakeFeed) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loaded)
}

func (f *fakeFeed) fetch(_ context.Context, page int) ([]api.Post, error) {
	f.mu.Lock()
	n := len(f.loaded)
	f.loaded = append(f.loaded, page)
	var gate chan struct{}
	if n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.fail {
		return nil, errors.New("connection refused")
	}
	var posts []api.Post
	for i := (page - 1) * 5; i < page*5 && i < f.total; i++ {
		posts = append(posts, api.Post{
			ID:        fmt.Sprintf("p%d", i),
			Content:   fmt.Sprintf("post number %d", i),
			Author:    api.Author{Username: "serena"},
			CreatedAt: time.Now(),
		})
	}
	return posts, nil
}

func newView(f *fakeFeed) FeedView {
	c := pagination.New(pagination.Options[api.Post]{PageSize: 5, OnLoadMore: f.fetch})
	return NewFeedView(context.Background(), c)
}

// settle runs a fetch command to completion and feeds its message back
func settle(t *testing.T, m FeedView, cmd tea.Cmd) (FeedView, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, pageSettledMsg{}, msg)
	next, cmd := m.Update(msg)
	return next.(FeedView), cmd
}

func key(m FeedView, k string) (FeedView, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(FeedView), cmd
}

func TestFeedViewLoadsFirstPage(t *testing.T) {
	f := &fakeFeed{total: 12}
	m := newView(f)
	m.pending = true

	m, cmd := settle(t, m, m.loadMore())
	assert.Nil(t, cmd)
	assert.Equal(t, 5, m.feed.Len())
	assert.Contains(t, m.View(), "post number 0")
	assert.Contains(t, m.View(), "5 posts")
}

func TestFeedViewPrefetchesNearEnd(t *testing.T) {
	f := &fakeFeed{total: 12}
	m := newView(f)
	m, _ = settle(t, m, m.loadMore())

	// cursor 1 is still outside the trigger zone of five posts
	m, cmd := key(m, "j")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.cursor)

	m, cmd = key(m, "j")
	assert.Equal(t, 2, m.cursor)
	require.NotNil(t, cmd)
	assert.True(t, m.pending)

	// a second key press while loading does not queue another fetch
	m, again := key(m, "j")
	assert.Nil(t, again)

	m, _ = settle(t, m, cmd)
	assert.Equal(t, 10, m.feed.Len())
	assert.Equal(t, []int{1, 2}, f.loaded)
}

func TestFeedViewShowsErrorAndRetries(t *testing.T) {
	f := &fakeFeed{total: 12, fail: true}
	m := newView(f)

	m, cmd := settle(t, m, m.loadMore())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Error: connection refused")

	f.fail = false
	m, cmd = key(m, "l")
	m, _ = settle(t, m, cmd)
	assert.Equal(t, 5, m.feed.Len())
	assert.NotContains(t, m.View(), "Error:")
}

func TestFeedViewRefreshResetsCursor(t *testing.T) {
	f := &fakeFeed{total: 4}
	m := newView(f)
	m, _ = settle(t, m, m.loadMore())
	m, _ = key(m, "j")
	m, _ = key(m, "j")
	require.Equal(t, 2, m.cursor)

	m, cmd := key(m, "r")
	assert.Equal(t, 0, m.cursor)
	m, _ = settle(t, m, cmd)
	assert.Equal(t, 4, m.feed.Len())
	assert.Contains(t, m.View(), "End of feed")
}

func TestFeedViewQuit(t *testing.T) {
	m := newView(&fakeFeed{})
	_, cmd := key(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFeedViewEmpty(t *testing.T) {
	m := newView(&fakeFeed{})
	m, _ = settle(t, m, m.loadMore())
	assert.Contains(t, m.View(), "No posts yet.")
}

// start runs cmd in the background, as the Bubble Tea runtime would
func start(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

// drain runs a command chain until it ends, failing if it keeps going
func drain(t *testing.T, m FeedView, cmd tea.Cmd) FeedView {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 5, "command chain did not end")
		m, cmd = settle(t, m, cmd)
	}
	return m
}

func TestFeedViewKeyDuringFirstLoadQueuesNothing(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFeed{total: 12, gates: []chan struct{}{gate}}
	m := newView(f)

	// Init's fetch is not tracked by pending
	first := start(m.loadMore())
	require.Eventually(t, m.feed.IsLoading, time.Second, time.Millisecond)

	m, cmd := key(m, "j")
	m = drain(t, m, cmd)
	m, cmd = key(m, "l")
	m = drain(t, m, cmd)
	assert.Equal(t, 1, f.calls())

	close(gate)
	next, cmd := m.Update(<-first)
	m = drain(t, next.(FeedView), cmd)
	assert.Equal(t, 5, m.feed.Len())
	assert.Equal(t, []int{1}, f.loaded)
}

func TestFeedViewDeclinedLoadDoesNotRetrigger(t *testing.T) {
	f := &fakeFeed{total: 12}
	m := newView(f)
	m.cursor = 4

	next, cmd := m.Update(pageSettledMsg{fetched: false})
	assert.Nil(t, cmd)
	assert.False(t, next.(FeedView).pending)
}

func TestFeedViewRefreshWhileLoadingSettlesOnce(t *testing.T) {
	firstGate, refreshGate := make(chan struct{}), make(chan struct{})
	f := &fakeFeed{total: 12, gates: []chan struct{}{firstGate, refreshGate}}
	m := newView(f)

	first := start(m.loadMore())
	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, time.Millisecond)

	m, cmd := key(m, "r")
	require.NotNil(t, cmd)
	refreshed := start(cmd)
	require.Eventually(t, func() bool { return f.calls() == 2 }, time.Second, time.Millisecond)

	// the first page comes back stale while the refresh still holds the feed
	close(firstGate)
	next, cmd := m.Update(<-first)
	m = next.(FeedView)
	assert.Nil(t, cmd)
	assert.True(t, m.feed.IsLoading())

	close(refreshGate)
	next, cmd = m.Update(<-refreshed)
	m = drain(t, next.(FeedView), cmd)
	assert.Equal(t, 5, m.feed.Len())
	assert.Equal(t, []int{1, 1}, f.loaded)
}
