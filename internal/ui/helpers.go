package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/five82/nib/internal/inkwell"
)

const (
	badgeDraft     = "draft"
	badgeScheduled = "scheduled"
	badgePublished = "published"
)

// badgeFor returns the badge key for a: scheduled drafts are distinguished
// from plain drafts.
func badgeFor(a inkwell.Article) string {
	switch {
	case a.Status == inkwell.StatusPublished:
		return badgePublished
	case a.Scheduled():
		return badgeScheduled
	default:
		return badgeDraft
	}
}

func badgeLabel(badge string) string {
	switch badge {
	case badgePublished:
		return "Published"
	case badgeScheduled:
		return "Scheduled"
	default:
		return "Draft"
	}
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

// truncate shortens value to at most width terminal cells.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(value, width, "…")
}

// padRight pads value with spaces to exactly width cells, truncating first.
func padRight(value string, width int) string {
	return runewidth.FillRight(truncate(value, width), width)
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("Jan 2, 2006")
}

func formatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("Jan 2, 2006 15:04")
}

func readTimeLabel(minutes int) string {
	return fmt.Sprintf("%d min read", max(1, minutes))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func authorLabel(a inkwell.Article) string {
	if a.AuthorUsername != "" {
		return a.AuthorUsername
	}
	if a.Author > 0 {
		return fmt.Sprintf("user %d", a.Author)
	}
	return "unknown"
}
