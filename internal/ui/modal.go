package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/inkwell"
)

// askDelete opens the delete confirmation for a. Nothing is sent to the
// server until the user confirms.
func (m Model) askDelete(a inkwell.Article) (tea.Model, tea.Cmd) {
	if m.actor == nil {
		m.setFlash("Sign in to delete articles", true)
		return m, nil
	}
	if !access.CanModify(m.actor, a) {
		m.setFlash("Only the author can delete this article", true)
		return m, nil
	}
	m.confirmDelete = true
	m.pendingDelete = &a
	return m, nil
}

func (m Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.deleting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Yes):
		if m.pendingDelete == nil {
			m.confirmDelete = false
			return m, nil
		}
		wasBusy := m.busy()
		m.deleting = true
		return m, m.startBusy(wasBusy, deleteArticleCmd(m.ctx, m.api, m.actor, *m.pendingDelete))
	case key.Matches(msg, m.keys.No):
		m.confirmDelete = false
		m.pendingDelete = nil
	}
	return m, nil
}

// handleArticleDeleted removes a confirmed deletion from the local list
// without fetching the page again.
func (m Model) handleArticleDeleted(msg articleDeletedMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	m.confirmDelete = false
	m.pendingDelete = nil

	if msg.err != nil {
		m.logger.Warn("delete article failed", "id", msg.id, "error", msg.err)
		m.setFlash(deleteErrorText(msg.err), true)
		return m, nil
	}
	if !msg.deleted {
		return m, nil
	}

	m.logger.Info("article deleted", "id", msg.id)
	m.store.Remove(msg.id)
	m.snapshot = m.store.Snapshot()
	if m.selectedRow >= len(m.snapshot.Articles) {
		m.selectedRow = max(0, len(m.snapshot.Articles)-1)
	}
	if m.currentView == ViewDetail && m.detailArticle != nil && m.detailArticle.ID == msg.id {
		m.detailGen++
		m.detailArticle = nil
		m.currentView = ViewList
	}
	m.setFlash("Article deleted", false)
	return m, nil
}

func deleteErrorText(err error) string {
	switch inkwell.KindOf(err) {
	case inkwell.KindUnauthenticated:
		return "Sign in to delete articles"
	case inkwell.KindForbidden:
		return "You do not have permission to delete this article"
	case inkwell.KindNotFound:
		return "Article not found"
	}
	return "Failed to delete article"
}

func (m Model) renderConfirmDelete() string {
	styles := m.theme.Styles()

	title := "this article"
	if m.pendingDelete != nil {
		title = fmt.Sprintf("%q", truncate(m.pendingDelete.Title, 40))
	}

	body := styles.Title.Render("Delete article") + "\n\n" +
		styles.Text.Render("Delete "+title+"?") + "\n" +
		styles.MutedText.Render("This cannot be undone.") + "\n\n"
	if m.deleting {
		body += styles.MutedText.Render(m.spinner.View() + " Deleting...")
	} else {
		body += styles.DangerText.Render("y") + styles.MutedText.Render(" delete   ") +
			styles.AccentText.Render("n") + styles.MutedText.Render(" cancel")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(1, 3).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
