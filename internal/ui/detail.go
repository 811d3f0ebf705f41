package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/inkwell"
)

// openDetail switches to the detail view and resolves ident. Any response
// still in flight for a previously opened article is discarded on arrival.
func (m Model) openDetail(ident string) (tea.Model, tea.Cmd) {
	m.detailGen++
	m.detailIdent = ident
	m.detailArticle = nil
	m.detailErr = ""
	m.currentView = ViewDetail
	m.clearFlash()

	wasBusy := m.busy()
	m.detailLoading = true
	m.refreshDetailContent()
	return m, m.startBusy(wasBusy, loadArticleCmd(m.ctx, m.resolver, m.detailGen, ident, m.actor))
}

// showArticle displays a without fetching it again.
func (m *Model) showArticle(a inkwell.Article) {
	m.detailGen++
	m.detailIdent = a.Ref()
	m.detailArticle = &a
	m.detailErr = ""
	m.detailLoading = false
	m.currentView = ViewDetail
	m.refreshDetailContent()
	m.detailViewport.GotoTop()
}

func (m Model) handleArticleLoaded(msg articleLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detailGen {
		m.logger.Debug("discarding stale article response", "gen", msg.gen, "current", m.detailGen)
		return m, nil
	}
	m.detailLoading = false
	if msg.err != nil {
		m.detailArticle = nil
		m.detailErr = access.LoadMessage(msg.err)
		m.logger.Info("load article failed", "ident", m.detailIdent, "error", msg.err)
	} else {
		m.detailArticle = msg.article
		m.detailErr = ""
	}
	m.refreshDetailContent()
	m.detailViewport.GotoTop()
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Back):
		m.currentView = ViewList
		m.detailGen++ // drop any response still in flight
		m.detailLoading = false
		return m, nil
	case key.Matches(msg, k.Refresh):
		if m.detailIdent != "" {
			return m.openDetail(m.detailIdent)
		}
		return m, nil
	case key.Matches(msg, k.Edit):
		if m.detailArticle != nil && access.CanModify(m.actor, *m.detailArticle) {
			article := *m.detailArticle
			return m.openEditor(&article)
		}
		return m, nil
	case key.Matches(msg, k.Delete):
		if m.detailArticle != nil {
			return m.askDelete(*m.detailArticle)
		}
		return m, nil
	case key.Matches(msg, k.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, k.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *Model) resizeDetail() {
	m.detailViewport.Width = max(1, m.width)
	m.detailViewport.Height = max(1, m.contentHeight())
	m.refreshDetailContent()
}

func (m *Model) refreshDetailContent() {
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) renderDetail() string {
	return m.detailViewport.View()
}

func (m Model) detailContent() string {
	styles := m.theme.Styles()
	width := max(20, m.width-4)

	switch {
	case m.detailLoading:
		return "  " + styles.MutedText.Render(m.spinner.View()+" Loading article...")
	case m.detailErr != "":
		return "  " + styles.DangerText.Render(m.detailErr)
	case m.detailArticle == nil:
		return ""
	}

	a := *m.detailArticle
	var b strings.Builder

	title := styles.Title.Width(width).Render(a.Title)
	if a.Status == inkwell.StatusDraft {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", styles.BadgeStyle(badgeDraft).Render("Draft"))
	}
	b.WriteString(indent(title))
	b.WriteString("\n")

	meta := []string{
		"By " + authorLabel(a),
		formatDate(a.ParsedCreatedAt(), m.loc),
		readTimeLabel(a.EstimatedReadTime),
	}
	b.WriteString(indent(styles.MutedText.Render(strings.Join(meta, "  ·  "))))
	b.WriteString("\n")

	if a.WasEdited() {
		b.WriteString(indent(styles.FaintText.Render("Updated " + formatDate(a.ParsedUpdatedAt(), m.loc))))
		b.WriteString("\n")
	}
	if a.Scheduled() {
		b.WriteString(indent(styles.WarningText.Render("Scheduled to publish " + formatDateTime(*a.PublishDate, m.loc))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(width).
		Render(a.Content)
	b.WriteString(indent(body))

	if access.CanModify(m.actor, a) {
		b.WriteString("\n\n")
		b.WriteString(indent(styles.AccentText.Render("e edit  ·  d delete")))
	}

	return b.String()
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
