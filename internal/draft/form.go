package draft

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/five82/nib/internal/inkwell"
)

// Mode distinguishes the create flow from the edit flow.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Action is the button that triggered a submission.
type Action int

const (
	// ActionSubmit submits with whatever status the status control shows.
	ActionSubmit Action = iota
	// ActionSaveDraft submits as a draft regardless of the status control.
	ActionSaveDraft
)

// Field names shared with the server's validation payloads.
const (
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldStatus      = "status"
	FieldPublishDate = "publish_date"
)

// ErrNoChanges is returned when an edit is submitted without modifications.
var ErrNoChanges = errors.New("no changes to save")

const localDetail = "form has errors"

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

// Saver persists article payloads. *inkwell.Client satisfies it.
type Saver interface {
	Create(ctx context.Context, input inkwell.ArticleInput) (*inkwell.Article, error)
	Update(ctx context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error)
}

// Form owns the article form's draft/published state machine.
//
// A publish date is only meaningful while the article is a draft: it is the
// scheduled publication time. Submitting as published always clears it.
type Form struct {
	mode     Mode
	loc      *time.Location
	now      func() time.Time
	state    FormState
	original FormState
	article  inkwell.Article
	errors   FieldErrors
	banner   string
}

// NewCreateForm returns an empty form for a new article. The status control
// starts on draft. A nil now uses time.Now.
func NewCreateForm(loc *time.Location, now func() time.Time) *Form {
	return &Form{
		mode:  ModeCreate,
		loc:   orLocal(loc),
		now:   orNow(now),
		state: FormState{Status: inkwell.StatusDraft},
	}
}

// NewEditForm loads a into a form and snapshots it for change detection.
func NewEditForm(a inkwell.Article, loc *time.Location, now func() time.Time) *Form {
	f := &Form{
		mode: ModeEdit,
		loc:  orLocal(loc),
		now:  orNow(now),
	}
	f.load(a)
	return f
}

func (f *Form) load(a inkwell.Article) {
	f.article = a
	f.state = StateFromArticle(a, f.loc)
	if !f.state.Status.Valid() {
		f.state.Status = inkwell.StatusDraft
	}
	f.original = f.state
}

// Mode reports whether the form creates or edits.
func (f *Form) Mode() Mode { return f.mode }

// Article returns the article being edited; ok is false in the create flow.
func (f *Form) Article() (inkwell.Article, bool) {
	return f.article, f.mode == ModeEdit
}

// State returns a copy of the live form state.
func (f *Form) State() FormState { return f.state }

// Location returns the zone used for schedule coercion.
func (f *Form) Location() *time.Location { return f.loc }

// SetTitle sets the title field.
func (f *Form) SetTitle(v string) { f.state.Title = v }

// SetContent sets the body field.
func (f *Form) SetContent(v string) { f.state.Content = v }

// SetStatus changes the status control. Unknown statuses are ignored.
func (f *Form) SetStatus(s inkwell.Status) {
	if s.Valid() {
		f.state.Status = s
	}
}

// ToggleStatus flips the status control between draft and published.
func (f *Form) ToggleStatus() {
	if f.state.Status == inkwell.StatusPublished {
		f.state.Status = inkwell.StatusDraft
		return
	}
	f.state.Status = inkwell.StatusPublished
}

// SetPublishDateLocal sets the schedule input's wall-clock value.
func (f *Form) SetPublishDateLocal(v string) { f.state.PublishDateLocal = v }

// ScheduleVisible reports whether the schedule input applies. The value is
// kept while hidden so Save as Draft can still submit it.
func (f *Form) ScheduleVisible() bool {
	return f.state.Status == inkwell.StatusDraft
}

// MinimumSchedule returns the earliest value the schedule input accepts.
func (f *Form) MinimumSchedule() string {
	return MinimumSchedule(f.now(), f.loc)
}

// WordCount returns the live word count of the content field.
func (f *Form) WordCount() int { return WordCount(f.state.Content) }

// ReadTime returns the live estimated read time in minutes.
func (f *Form) ReadTime() int { return EstimatedReadTime(f.state.Content) }

// Dirty reports unsaved changes against the loaded article. Always false
// in the create flow.
func (f *Form) Dirty() bool {
	if f.mode != ModeEdit {
		return false
	}
	return IsDirty(f.original, f.state, f.loc)
}

// CanSave reports whether the save controls are enabled.
func (f *Form) CanSave() bool {
	if f.mode == ModeCreate {
		return true
	}
	return f.Dirty()
}

// EffectiveStatus returns the status a submission via action would carry.
func (f *Form) EffectiveStatus(action Action) inkwell.Status {
	if action == ActionSaveDraft {
		return inkwell.StatusDraft
	}
	return f.state.Status
}

// Validate checks the form as it would be submitted via action. In the edit
// flow a schedule left as loaded is not checked against the current time.
func (f *Form) Validate(action Action) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.state.Title) == "" {
		errs[FieldTitle] = "This field is required."
	}
	if strings.TrimSpace(f.state.Content) == "" {
		errs[FieldContent] = "This field is required."
	}
	status := f.EffectiveStatus(action)
	if !status.Valid() {
		errs[FieldStatus] = "Choose draft or published."
	}
	if status == inkwell.StatusDraft {
		when, changed, err := f.schedule()
		switch {
		case err != nil:
			errs[FieldPublishDate] = "Enter a valid date and time."
		case changed && when != nil && when.Before(f.now().Truncate(time.Minute)):
			errs[FieldPublishDate] = "Scheduled time cannot be in the past."
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Payload packages the form for submission via action. Local validation
// failures are reported as an inkwell validation error.
func (f *Form) Payload(action Action) (inkwell.ArticleInput, error) {
	if errs := f.Validate(action); errs != nil {
		return inkwell.ArticleInput{}, &inkwell.APIError{
			Kind:   inkwell.KindValidation,
			Fields: errs,
			Detail: localDetail,
		}
	}
	input := inkwell.ArticleInput{
		Title:   f.state.Title,
		Content: f.state.Content,
		Status:  f.EffectiveStatus(action),
	}
	if input.Status == inkwell.StatusDraft {
		// Validate already accepted the value.
		input.PublishDate, _, _ = f.schedule()
	}
	return input, nil
}

// schedule returns the instant the schedule input denotes and whether it
// differs from the loaded article's. In the edit flow an unchanged input
// yields the loaded instant itself: a wall-clock value inside a DST
// fall-back hour names two instants and re-parsing picks the earlier one.
func (f *Form) schedule() (when *time.Time, changed bool, err error) {
	if f.mode == ModeEdit && f.article.PublishDate != nil &&
		normalizeLocal(f.state.PublishDateLocal, f.loc) == normalizeLocal(f.original.PublishDateLocal, f.loc) {
		loaded := f.article.PublishDate.Truncate(time.Minute).UTC()
		return &loaded, false, nil
	}
	when, err = FromLocalInput(f.state.PublishDateLocal, f.loc)
	return when, true, err
}

// Submit validates, packages and persists the form. Edits require an actor
// and at least one change. Failures are recorded on the form: validation
// messages per field, anything else as a banner.
//
// After a successful submission the form edits the saved article, so a
// second submission updates instead of creating a duplicate.
func (f *Form) Submit(ctx context.Context, saver Saver, actor *inkwell.Actor, action Action) (*inkwell.Article, error) {
	f.errors = nil
	f.banner = ""

	if f.mode == ModeEdit {
		if actor == nil {
			err := &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Detail: "sign in to edit articles"}
			f.recordFailure(err)
			return nil, err
		}
		if !f.Dirty() {
			return nil, ErrNoChanges
		}
	}

	input, err := f.Payload(action)
	if err != nil {
		f.recordFailure(err)
		return nil, err
	}

	var saved *inkwell.Article
	if f.mode == ModeEdit {
		saved, err = saver.Update(ctx, actor.ID, f.article.ID, input)
	} else {
		saved, err = saver.Create(ctx, input)
	}
	if err != nil {
		err = inkwell.Classify(err)
		f.recordFailure(err)
		return nil, fmt.Errorf("%s article: %w", f.verb(), err)
	}
	if saved == nil {
		saved = &inkwell.Article{}
	}

	f.mode = ModeEdit
	f.load(*saved)
	return saved, nil
}

// FieldError returns the message recorded for name, if any.
func (f *Form) FieldError(name string) string {
	return f.errors[name]
}

// Errors returns a copy of all recorded field messages.
func (f *Form) Errors() FieldErrors {
	if len(f.errors) == 0 {
		return nil
	}
	return maps.Clone(f.errors)
}

// Banner returns the general failure message, if any.
func (f *Form) Banner() string { return f.banner }

// ClearErrors drops recorded messages.
func (f *Form) ClearErrors() {
	f.errors = nil
	f.banner = ""
}

func (f *Form) recordFailure(err error) {
	if fields := inkwell.FieldErrors(err); len(fields) > 0 {
		f.errors = maps.Clone(fields)
		var apiErr *inkwell.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" && apiErr.Detail != localDetail {
			f.banner = apiErr.Detail
		}
		return
	}
	f.banner = fmt.Sprintf("Failed to %s article", f.verb())
}

func (f *Form) verb() string {
	if f.mode == ModeEdit {
		return "update"
	}
	return "create"
}

func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
