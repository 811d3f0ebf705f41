package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/state"
)

// handleListKey processes keyboard input for the article lists.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	count := len(m.snapshot.Articles)

	switch {
	case key.Matches(msg, k.Feed):
		return m.switchScope(state.ScopeFeed)
	case key.Matches(msg, k.Mine):
		return m.switchScope(state.ScopeMine)
	case key.Matches(msg, k.Toggle):
		if m.snapshot.Query.Scope == state.ScopeMine {
			return m.switchScope(state.ScopeFeed)
		}
		return m.switchScope(state.ScopeMine)
	case key.Matches(msg, k.NextPage):
		if m.snapshot.Query.Page < m.snapshot.TotalPages() || m.snapshot.HasNext {
			return m.gotoPage(m.snapshot.Query.Page + 1)
		}
		return m, nil
	case key.Matches(msg, k.PrevPage):
		if m.snapshot.Query.Page > 1 {
			return m.gotoPage(m.snapshot.Query.Page - 1)
		}
		return m, nil
	case key.Matches(msg, k.Refresh):
		return m.reloadList()
	case key.Matches(msg, k.New):
		if m.actor == nil {
			m.setFlash("Sign in to write articles", true)
			return m, nil
		}
		return m.openEditor(nil)
	}

	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, k.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, k.Top):
		m.selectedRow = 0
	case key.Matches(msg, k.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, k.Open):
		if a := m.selectedArticle(); a != nil {
			return m.openDetail(a.Ref())
		}
	case key.Matches(msg, k.Edit):
		if a := m.selectedArticle(); a != nil {
			if !access.CanModify(m.actor, *a) {
				m.setFlash("Only the author can edit this article", true)
				return m, nil
			}
			article := *a
			return m.openEditor(&article)
		}
	case key.Matches(msg, k.Delete):
		if a := m.selectedArticle(); a != nil {
			return m.askDelete(*a)
		}
	}

	return m, nil
}

func (m Model) selectedArticle() *inkwell.Article {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Articles) {
		return nil
	}
	a := m.snapshot.Articles[m.selectedRow]
	return &a
}

func (m Model) switchScope(scope state.Scope) (tea.Model, tea.Cmd) {
	if scope == state.ScopeMine && m.actor == nil {
		m.setFlash("Sign in to see your articles", true)
		return m, nil
	}
	if scope == m.snapshot.Query.Scope {
		return m, nil
	}
	m.clearFlash()
	return m.setQuery(state.Query{Scope: scope, Page: 1, PageSize: m.pageSize})
}

func (m Model) gotoPage(page int) (tea.Model, tea.Cmd) {
	q := m.snapshot.Query
	q.Page = page
	return m.setQuery(q)
}

func (m Model) setQuery(q state.Query) (tea.Model, tea.Cmd) {
	m.store.SetQuery(q)
	m.selectedRow = 0
	m.snapshot = m.store.Snapshot()
	return m.reloadList()
}

func (m Model) reloadList() (tea.Model, tea.Cmd) {
	wasBusy := m.busy()
	m.listLoading = true
	return m, m.startBusy(wasBusy, refreshListCmd(m.ctx, m.store, m.api, m.actor))
}

// renderList renders the current page of the selected list.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	snap := m.snapshot
	mine := snap.Query.Scope == state.ScopeMine

	var lines []string

	switch {
	case len(snap.Articles) == 0 && snap.LastError != nil:
		lines = append(lines, styles.DangerText.Render(listErrorText(snap.LastError, mine)))
	case len(snap.Articles) == 0 && (m.listLoading || !snap.HasData):
		lines = append(lines, styles.MutedText.Render(m.spinner.View()+" Loading articles..."))
	case len(snap.Articles) == 0 && mine:
		lines = append(lines, styles.MutedText.Render("You haven't written any articles yet. Press n to start one."))
	case len(snap.Articles) == 0:
		lines = append(lines, styles.MutedText.Render("No articles published yet."))
	default:
		lines = append(lines, styles.FaintText.Render(m.listHeaderRow(mine)))
		for i, a := range snap.Articles {
			lines = append(lines, m.renderListRow(a, i == m.selectedRow, mine))
		}
	}

	// Pagination footer pinned to the bottom of the content area.
	pager := styles.MutedText.Render(fmt.Sprintf("Page %d of %d  ·  %s",
		snap.Query.Page, snap.TotalPages(), pluralize(snap.Count, "article", "articles")))

	visible := max(1, height-2)
	if len(lines) > visible {
		start := 0
		if m.selectedRow+1 >= visible {
			start = m.selectedRow + 2 - visible
		}
		end := min(len(lines), start+visible)
		lines = lines[start:end]
	}
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, pager)
	return strings.Join(lines, "\n")
}

type listColumns struct {
	title, badge, author, read, date int
}

func (m Model) columns(mine bool) listColumns {
	cols := listColumns{read: 12, date: 13}
	if mine {
		cols.badge = 11
	} else {
		cols.author = 14
	}
	fixed := cols.badge + cols.author + cols.read + cols.date + 6
	cols.title = max(10, m.width-fixed)
	return cols
}

func (m Model) listHeaderRow(mine bool) string {
	cols := m.columns(mine)
	parts := []string{" " + padRight("Title", cols.title)}
	if mine {
		parts = append(parts, padRight("Status", cols.badge))
	} else {
		parts = append(parts, padRight("Author", cols.author))
	}
	parts = append(parts, padRight("Read", cols.read), padRight("Created", cols.date))
	return strings.Join(parts, " ")
}

func (m Model) renderListRow(a inkwell.Article, selected, mine bool) string {
	styles := m.theme.Styles()
	cols := m.columns(mine)

	title := " " + padRight(a.Title, cols.title)
	var middle string
	if mine {
		badge := badgeFor(a)
		middle = styles.BadgeStyle(badge).Render(badgeLabel(badge))
		middle += strings.Repeat(" ", max(0, cols.badge-lipgloss.Width(middle)))
	} else {
		middle = padRight(authorLabel(a), cols.author)
	}
	read := padRight(readTimeLabel(a.EstimatedReadTime), cols.read)
	created := padRight(formatDate(a.ParsedCreatedAt(), m.loc), cols.date)

	if selected {
		sel := styles.Selected
		return sel.Render(title) + sel.Render(" ") + middle + sel.Render(" "+read+" "+created)
	}
	return styles.Text.Render(title) + " " + middle + " " + styles.MutedText.Render(read+" "+created)
}

func listErrorText(err error, mine bool) string {
	switch inkwell.KindOf(err) {
	case inkwell.KindUnauthenticated:
		return "Sign in to see your articles"
	case inkwell.KindForbidden:
		return "You do not have permission to view these articles"
	}
	if mine {
		return "Failed to load your articles"
	}
	return "Failed to load articles"
}
