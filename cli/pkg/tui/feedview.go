// Package tui holds the interactive terminal views
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/pagination"
)

// prefetchTrigger is how close to the end the cursor gets before the next
// page is requested
const prefetchTrigger = 3

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	authorStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("42")).PaddingLeft(1)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// pageSettledMsg is sent when a LoadMore or Refresh call returns. fetched
// is false when LoadMore declined to fetch.
type pageSettledMsg struct{ fetched bool }

// FeedView browses a feed one post at a time, loading pages on demand
type FeedView struct {
	ctx     context.Context
	feed    *pagination.Controller[api.Post]
	spinner spinner.Model
	cursor  int
	height  int
	now     func() time.Time

	// pending is true while a fetch command is outstanding
	pending bool
}

// NewFeedView wraps a controller. The first page is loaded on Init.
func NewFeedView(ctx context.Context, feed *pagination.Controller[api.Post]) FeedView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return FeedView{ctx: ctx, feed: feed, spinner: s, height: 24, now: time.Now}
}

// Run starts the full-screen program and blocks until the user quits
func Run(ctx context.Context, feed *pagination.Controller[api.Post]) error {
	_, err := tea.NewProgram(NewFeedView(ctx, feed), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m FeedView) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMore())
}

func (m FeedView) loadMore() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return pageSettledMsg{fetched: feed.LoadMore(ctx)}
	}
}

func (m FeedView) refresh() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		feed.Refresh(ctx)
		return pageSettledMsg{fetched: true}
	}
}

// maybeLoadMore requests the next page when the cursor is near the end.
// A fetch started elsewhere, such as the one from Init, counts as pending.
func (m FeedView) maybeLoadMore() (FeedView, tea.Cmd) {
	if m.pending || m.feed.IsLoading() || !m.feed.HasMore() || m.cursor < m.feed.Len()-prefetchTrigger {
		return m, nil
	}
	m.pending = true
	return m, m.loadMore()
}

func (m FeedView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageSettledMsg:
		m.pending = false
		if n := m.feed.Len(); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		// a short first page can leave the cursor inside the trigger zone
		if msg.fetched && m.feed.Err() == "" {
			return m.maybeLoadMore()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < m.feed.Len()-1 {
				m.cursor++
			}
			return m.maybeLoadMore()
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "g", "home":
			m.cursor = 0
			return m, nil
		case "r":
			m.cursor = 0
			m.pending = true
			return m, m.refresh()
		case "l":
			// retry after a failed page
			if m.pending || m.feed.IsLoading() {
				return m, nil
			}
			m.pending = true
			return m, m.loadMore()
		}
	}
	return m, nil
}

func (m FeedView) View() string {
	state := m.feed.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Courtside feed"))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  %d posts", len(state.Items))))
	b.WriteString("\n\n")

	if len(state.Items) == 0 && !state.IsLoading && !m.pending && state.Err == "" {
		b.WriteString("No posts yet.\n")
	}

	start, end := m.window(len(state.Items))
	for i := start; i < end; i++ {
		block := renderPost(state.Items[i], m.now())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(block))
		} else {
			b.WriteString(itemStyle.Render(block))
		}
		b.WriteString("\n\n")
	}

	switch {
	case state.IsLoading || m.pending:
		b.WriteString(m.spinner.View() + " Loading...\n")
	case !state.HasMore && len(state.Items) > 0:
		b.WriteString(metaStyle.Render("End of feed") + "\n")
	}
	if state.Err != "" {
		b.WriteString(errorStyle.Render("Error: "+state.Err) + "\n")
	}

	b.WriteString(helpStyle.Render("j/k move  r refresh  l retry  q quit"))
	return b.String()
}

// window picks the posts that fit on screen around the cursor
func (m FeedView) window(n int) (int, int) {
	// each post takes about five lines
	visible := max((m.height-6)/5, 1)
	start := max(m.cursor-visible/2, 0)
	end := min(start+visible, n)
	if end-start < visible {
		start = max(end-visible, 0)
	}
	return start, end
}

func renderPost(p api.Post, now time.Time) string {
	header := authorStyle.Render(formatter.AuthorName(p.Author))
	if label := formatter.PostTypeLabel(p.PostType); label != "" {
		header += " " + label
	}
	header += metaStyle.Render("  " + formatter.Ago(p.CreatedAt, now))

	meta := fmt.Sprintf("%d likes, %d comments", p.LikeCount, p.CommentCount)
	if p.LikedByMe {
		meta += " (liked)"
	}
	return header + "\n" + formatter.Truncate(p.Content, 280) + "\n" + metaStyle.Render(meta)
}
