package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/state"
)

// renderHeader renders the top bar: logo, current list and connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	left := []string{
		styles.Logo.Render("nib"),
		styles.Text.Render(m.viewLabel()),
	}
	if m.currentView == ViewList && snap.HasData {
		left = append(left, styles.MutedText.Render(pluralize(snap.Count, "article", "articles")))
	}

	var right []string
	switch {
	case snap.IsOffline():
		right = append(right, styles.DangerText.Render(classifyConnectionError(snap.LastError)))
	case snap.LastError != nil:
		right = append(right, styles.WarningText.Render("retrying"))
	}
	if !snap.LastUpdated.IsZero() {
		age := "updated just now"
		if d := m.now().Sub(snap.LastUpdated); d >= time.Second {
			age = "updated " + humanizeDuration(d) + " ago"
		}
		right = append(right, styles.FaintText.Render(age))
	}
	if m.actor != nil {
		name := m.actor.Username
		if name == "" {
			name = "signed in"
		}
		right = append(right, styles.AccentText.Render("@"+name))
	} else {
		right = append(right, styles.MutedText.Render("anonymous"))
	}

	leftText := strings.Join(left, "  ")
	rightText := strings.Join(right, "  ")
	gap := max(1, m.width-2-lipgloss.Width(leftText)-lipgloss.Width(rightText))

	return styles.Header.Width(m.width).Render(leftText + strings.Repeat(" ", gap) + rightText)
}

func (m Model) viewLabel() string {
	switch m.currentView {
	case ViewDetail:
		return "Article"
	case ViewEditor:
		if m.form != nil {
			if _, editing := m.form.Article(); editing {
				return "Edit article"
			}
		}
		return "New article"
	}
	if m.snapshot.Query.Scope == state.ScopeMine {
		return "My articles"
	}
	return "Feed"
}

// renderFlash renders the single status line under the header.
func (m Model) renderFlash() string {
	if m.flash == "" {
		return ""
	}
	styles := m.theme.Styles()
	text := " " + truncate(m.flash, max(1, m.width-2))
	if m.flashError {
		return styles.DangerText.Render(text)
	}
	return styles.SuccessText.Render(text)
}

// renderFooter renders the key hints for the current view.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	type hint struct{ key, desc string }
	var hints []hint

	switch m.currentView {
	case ViewList:
		hints = []hint{{"enter", "Open"}, {"1/2", "Feed/Mine"}, {"[/]", "Page"}, {"r", "Refresh"}}
		if m.actor != nil {
			hints = append(hints, hint{"n", "New"}, hint{"e", "Edit"}, hint{"d", "Delete"})
		}
	case ViewDetail:
		hints = []hint{{"esc", "Back"}, {"j/k", "Scroll"}, {"r", "Reload"}}
		if m.detailArticle != nil && access.CanModify(m.actor, *m.detailArticle) {
			hints = append(hints, hint{"e", "Edit"}, hint{"d", "Delete"})
		}
	case ViewEditor:
		hints = []hint{{"tab", "Next field"}, {"ctrl+s", "Save"}, {"ctrl+d", "Save as draft"}, {"esc", "Cancel"}}
	}
	if m.currentView != ViewEditor {
		hints = append(hints, hint{"T", "Theme"}, hint{"?", "Help"}, hint{"q", "Quit"})
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, h.key+" "+h.desc)
	}
	return styles.Footer.Width(m.width).Render(truncate(strings.Join(parts, "  "), max(1, m.width-2)))
}

// classifyConnectionError returns a short description of a list failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	switch inkwell.KindOf(err) {
	case inkwell.KindUnauthenticated:
		return "SIGNED OUT"
	case inkwell.KindForbidden:
		return "FORBIDDEN"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
