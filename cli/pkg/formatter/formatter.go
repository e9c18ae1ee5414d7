// Package formatter renders Courtside objects for the terminal
package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/fatih/color"
)

var (
	Bold  = color.New(color.Bold)
	Faint = color.New(color.Faint)
	Info  = color.New(color.FgCyan)
	Green = color.New(color.FgGreen)
)

var postTypeLabels = map[string]string{
	"general":             "",
	"match":               "[match]",
	"looking_for_partner": "[partner wanted]",
	"tip":                 "[tip]",
}

// PostTypeLabel returns the badge shown next to a post, empty for general posts
func PostTypeLabel(postType string) string {
	if label, ok := postTypeLabels[postType]; ok {
		return label
	}
	return "[" + postType + "]"
}

// Ago formats t relative to now in the largest whole unit
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// AuthorName prefers the display name
func AuthorName(a api.Author) string {
	if a.DisplayName != "" {
		return a.DisplayName + " (@" + a.Username + ")"
	}
	return "@" + a.Username
}

// WritePost renders one post as a short block
func WritePost(w io.Writer, p api.Post, now time.Time) {
	Bold.Fprint(w, AuthorName(p.Author))
	if label := PostTypeLabel(p.PostType); label != "" {
		Info.Fprint(w, " "+label)
	}
	Faint.Fprintf(w, "  %s  %s\n", Ago(p.CreatedAt, now), p.ID)
	fmt.Fprintln(w, p.Content)
	if p.ImageURL != "" {
		Faint.Fprintf(w, "image: %s\n", p.ImageURL)
	}
	liked := ""
	if p.LikedByMe {
		liked = " (liked)"
	}
	Faint.Fprintf(w, "%d likes%s, %d comments\n", p.LikeCount, liked, p.CommentCount)
}

// WritePosts renders posts separated by blank lines
func WritePosts(w io.Writer, posts []api.Post, now time.Time) {
	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		WritePost(w, p, now)
	}
}

// Skill formats an NTRP level, or "unrated"
func Skill(level float64) string {
	if level <= 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f", level)
}

// ProfileFields lists the fields of a profile in display order
func ProfileFields(u api.User) []output.Field {
	fields := []output.Field{
		{Label: "ID", Value: u.ID},
		{Label: "Username", Value: u.Username},
		{Label: "Display Name", Value: u.DisplayName},
	}
	if u.Email != "" {
		fields = append(fields, output.Field{Label: "Email", Value: u.Email})
	}
	fields = append(fields,
		output.Field{Label: "Role", Value: u.Role},
		output.Field{Label: "Skill", Value: Skill(u.SkillLevel)},
	)
	if u.Plays != "" {
		fields = append(fields, output.Field{Label: "Plays", Value: u.Plays + "-handed"})
	}
	if u.Location != "" {
		fields = append(fields, output.Field{Label: "Location", Value: u.Location})
	}
	if u.Latitude != nil && u.Longitude != nil {
		fields = append(fields, output.Field{Label: "Coordinates", Value: fmt.Sprintf("%.4f, %.4f", *u.Latitude, *u.Longitude)})
	}
	if u.Bio != "" {
		fields = append(fields, output.Field{Label: "Bio", Value: u.Bio})
	}
	fields = append(fields, output.Field{Label: "Posts", Value: u.PostCount})
	if u.Online {
		fields = append(fields, output.Field{Label: "Status", Value: Green.Sprint("online")})
	}
	if u.IsAdmin {
		fields = append(fields, output.Field{Label: "Admin", Value: "yes"})
	}
	return fields
}
