package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/draft"
	"github.com/five82/nib/internal/inkwell"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldContent
	fieldStatus
	fieldSchedule
)

// editorChrome is the number of editor rows not used by the body textarea.
const editorChrome = 12

// openEditor starts the create flow when a is nil and the edit flow
// otherwise.
func (m Model) openEditor(a *inkwell.Article) (tea.Model, tea.Cmd) {
	if m.actor == nil {
		m.setFlash("Sign in to write articles", true)
		return m, nil
	}

	var form *draft.Form
	if a == nil {
		form = draft.NewCreateForm(m.loc, m.now)
	} else {
		if !access.CanModify(m.actor, *a) {
			m.setFlash("Only the author can edit this article", true)
			return m, nil
		}
		form = draft.NewEditForm(*a, m.loc, m.now)
	}

	m.editorReturn = m.currentView
	m.editorGen++
	m.form = form
	m.saving = false
	m.discardArmed = false
	m.clearFlash()

	st := form.State()

	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.Placeholder = "Title"
	m.titleInput.SetValue(st.Title)

	m.scheduleInput = textinput.New()
	m.scheduleInput.Prompt = ""
	m.scheduleInput.Placeholder = form.MinimumSchedule()
	m.scheduleInput.CharLimit = len("2006-01-02T15:04:05")
	m.scheduleInput.SetValue(st.PublishDateLocal)

	m.body = textarea.New()
	m.body.Placeholder = "Write your article..."
	m.body.ShowLineNumbers = false
	m.body.CharLimit = 0
	m.body.MaxHeight = 0
	m.body.SetValue(st.Content)

	m.currentView = ViewEditor
	m.resizeEditor()
	return m, m.focusField(fieldTitle)
}

func (m *Model) resizeEditor() {
	if m.form == nil {
		return
	}
	width := max(20, m.width-6)
	m.titleInput.Width = width
	m.scheduleInput.Width = width
	m.body.SetWidth(width)
	m.body.SetHeight(max(3, m.contentHeight()-editorChrome))
}

// focusField moves keyboard focus to f and returns the cursor blink command.
func (m *Model) focusField(f editorField) tea.Cmd {
	m.focus = f
	m.titleInput.Blur()
	m.scheduleInput.Blur()
	m.body.Blur()

	switch f {
	case fieldTitle:
		return m.titleInput.Focus()
	case fieldContent:
		return m.body.Focus()
	case fieldSchedule:
		return m.scheduleInput.Focus()
	}
	return nil
}

func (m Model) editorFields() []editorField {
	fields := []editorField{fieldTitle, fieldContent, fieldStatus}
	if m.form != nil && m.form.ScheduleVisible() {
		fields = append(fields, fieldSchedule)
	}
	return fields
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	fields := m.editorFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	return m.focusField(fields[idx])
}

// handleEditorKey processes keyboard input while the editor is open.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	if key.Matches(msg, k.ForceQuit) {
		return m, tea.Quit
	}
	if m.form == nil {
		m.currentView = ViewList
		return m, nil
	}
	if m.saving {
		return m, nil
	}

	if !key.Matches(msg, k.Back) {
		m.discardArmed = false
	}

	switch {
	case key.Matches(msg, k.Back):
		if m.editorHasChanges() && !m.discardArmed {
			m.discardArmed = true
			m.setFlash("Unsaved changes. Press esc again to discard.", true)
			return m, nil
		}
		return m.closeEditor()
	case key.Matches(msg, k.NextField):
		return m, m.cycleFocus(1)
	case key.Matches(msg, k.PrevField):
		return m, m.cycleFocus(-1)
	case key.Matches(msg, k.Submit):
		return m.saveForm(draft.ActionSubmit)
	case key.Matches(msg, k.SaveDraft):
		return m.saveForm(draft.ActionSaveDraft)
	}

	if m.focus == fieldStatus {
		if key.Matches(msg, k.ToggleStatus) {
			m.form.ToggleStatus()
		}
		return m, nil
	}

	return m.updateEditorInputs(msg)
}

// updateEditorInputs forwards msg to the focused input and mirrors the
// result into the form.
func (m Model) updateEditorInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case fieldContent:
		m.body, cmd = m.body.Update(msg)
	case fieldSchedule:
		m.scheduleInput, cmd = m.scheduleInput.Update(msg)
	}
	m.syncForm()
	return m, cmd
}

func (m *Model) syncForm() {
	m.form.SetTitle(m.titleInput.Value())
	m.form.SetContent(m.body.Value())
	m.form.SetPublishDateLocal(m.scheduleInput.Value())
}

// editorHasChanges reports whether closing the editor would lose input.
func (m Model) editorHasChanges() bool {
	if m.form == nil {
		return false
	}
	if m.form.Mode() == draft.ModeEdit {
		return m.form.Dirty()
	}
	st := m.form.State()
	return strings.TrimSpace(st.Title) != "" || strings.TrimSpace(st.Content) != "" ||
		strings.TrimSpace(st.PublishDateLocal) != ""
}

func (m Model) closeEditor() (tea.Model, tea.Cmd) {
	m.editorGen++
	m.form = nil
	m.saving = false
	m.discardArmed = false
	m.clearFlash()
	if m.editorReturn == ViewDetail && m.detailArticle != nil {
		m.currentView = ViewDetail
	} else {
		m.currentView = ViewList
	}
	return m, nil
}

func (m Model) saveForm(action draft.Action) (tea.Model, tea.Cmd) {
	m.syncForm()
	if m.form.Mode() == draft.ModeEdit && !m.form.CanSave() {
		m.setFlash("No changes to save", false)
		return m, nil
	}

	wasBusy := m.busy()
	m.saving = true
	m.editorGen++
	m.clearFlash()
	return m, m.startBusy(wasBusy, saveArticleCmd(m.ctx, m.api, m.editorGen, *m.form, m.actor, action))
}

func (m Model) handleArticleSaved(msg articleSavedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.editorGen {
		m.logger.Debug("discarding stale save response", "gen", msg.gen, "current", m.editorGen)
		if msg.err == nil {
			return m.reloadList()
		}
		return m, nil
	}

	m.saving = false
	m.form = msg.form

	if msg.err != nil {
		switch {
		case errors.Is(msg.err, draft.ErrNoChanges):
			m.setFlash("No changes to save", false)
		case m.form.Banner() != "":
			m.setFlash(m.form.Banner(), true)
		case len(m.form.Errors()) > 0:
			m.setFlash("Fix the highlighted fields", true)
		default:
			m.setFlash("Failed to save article", true)
		}
		m.logger.Info("save article failed", "error", msg.err)
		return m, nil
	}

	saved := inkwell.Article{}
	if msg.article != nil {
		saved = *msg.article
	}
	m.logger.Info("article saved", "id", saved.ID, "status", saved.Status)

	m.form = nil
	m.editorGen++
	m.showArticle(saved)
	m.setFlash(m.savedFlash(saved), false)
	return m.reloadList()
}

func (m Model) savedFlash(a inkwell.Article) string {
	switch {
	case a.Status == inkwell.StatusPublished:
		return "Article published"
	case a.Scheduled():
		return "Draft scheduled for " + formatDateTime(*a.PublishDate, m.loc)
	default:
		return "Draft saved"
	}
}

// renderEditor renders the article form.
func (m Model) renderEditor() string {
	if m.form == nil {
		return ""
	}
	styles := m.theme.Styles()
	st := m.form.State()

	box := func(f editorField, content string) string {
		style := styles.Input
		if m.focus == f {
			style = styles.FocusedInput
		}
		return style.Render(content)
	}
	fieldErr := func(name string) string {
		if msg := m.form.FieldError(name); msg != "" {
			return "\n" + styles.DangerText.Render(msg)
		}
		return ""
	}

	heading := "New article"
	if a, ok := m.form.Article(); ok {
		heading = "Editing: " + truncate(a.Title, max(10, m.width-14))
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(heading))
	if m.form.Dirty() {
		b.WriteString("  " + styles.WarningText.Render("Unsaved changes"))
	}
	b.WriteString("\n")

	b.WriteString(box(fieldTitle, m.titleInput.View()))
	b.WriteString(fieldErr(draft.FieldTitle))
	b.WriteString("\n")

	status := fmt.Sprintf("Status: [%s]", st.Status.Label())
	if m.focus == fieldStatus {
		status = styles.AccentText.Render(status + "  space to toggle")
	} else {
		status = styles.MutedText.Render(status)
	}
	b.WriteString(status)
	b.WriteString(fieldErr(draft.FieldStatus))
	b.WriteString("\n")

	if m.form.ScheduleVisible() {
		label := styles.MutedText.Render("Schedule (YYYY-MM-DDTHH:MM, blank for none, earliest " + m.form.MinimumSchedule() + ")")
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(box(fieldSchedule, m.scheduleInput.View()))
		b.WriteString(fieldErr(draft.FieldPublishDate))
		b.WriteString("\n")
	}

	b.WriteString(box(fieldContent, m.body.View()))
	b.WriteString(fieldErr(draft.FieldContent))
	b.WriteString("\n")

	stats := fmt.Sprintf("%s  ·  %s", pluralize(m.form.WordCount(), "word", "words"), readTimeLabel(m.form.ReadTime()))
	if m.saving {
		stats += "  " + m.spinner.View() + " Saving..."
	}
	b.WriteString(styles.FaintText.Render(stats))

	return b.String()
}
