package draft

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/five82/nib/internal/inkwell"
)

type fakeSaver struct {
	CreateFunc func(ctx context.Context, input inkwell.ArticleInput) (*inkwell.Article, error)
	UpdateFunc func(ctx context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error)

	creates int
	updates int
}

func (f *fakeSaver) Create(ctx context.Context, input inkwell.ArticleInput) (*inkwell.Article, error) {
	f.creates++
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, input)
	}
	return &inkwell.Article{ID: 1, Title: input.Title, Content: input.Content, Status: input.Status, PublishDate: input.PublishDate}, nil
}

func (f *fakeSaver) Update(ctx context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error) {
	f.updates++
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, userID, id, input)
	}
	return &inkwell.Article{ID: id, Author: userID, Title: input.Title, Content: input.Content, Status: input.Status, PublishDate: input.PublishDate}, nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestCreatePublishedClearsSchedule(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("a b c")
	f.SetPublishDateLocal("2025-03-02T10:00")
	f.SetStatus(inkwell.StatusPublished)

	var sent inkwell.ArticleInput
	saver := &fakeSaver{CreateFunc: func(_ context.Context, input inkwell.ArticleInput) (*inkwell.Article, error) {
		sent = input
		return &inkwell.Article{ID: 7, Title: input.Title, Content: input.Content, Status: input.Status, EstimatedReadTime: 1}, nil
	}}

	saved, err := f.Submit(context.Background(), saver, nil, ActionSubmit)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sent.Status != inkwell.StatusPublished {
		t.Fatalf("status = %q, want published", sent.Status)
	}
	if sent.PublishDate != nil {
		t.Fatalf("publish date = %v, want nil", sent.PublishDate)
	}
	if saved.EstimatedReadTime != 1 {
		t.Fatalf("read time = %d, want 1", saved.EstimatedReadTime)
	}
	if f.ReadTime() != 1 || f.WordCount() != 3 {
		t.Fatalf("live metrics = %d words, %d min; want 3 words, 1 min", f.WordCount(), f.ReadTime())
	}
}

func TestSaveDraftOverridesStatusControl(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("body")
	f.SetStatus(inkwell.StatusPublished)
	f.SetPublishDateLocal("2025-03-02T10:00")

	input, err := f.Payload(ActionSaveDraft)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if input.Status != inkwell.StatusDraft {
		t.Fatalf("status = %q, want draft", input.Status)
	}
	want := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	if input.PublishDate == nil || !input.PublishDate.Equal(want) {
		t.Fatalf("publish date = %v, want %v", input.PublishDate, want)
	}
	if f.State().Status != inkwell.StatusPublished {
		t.Fatalf("status control changed to %q", f.State().Status)
	}
}

func TestDraftWithoutSchedule(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("body")

	input, err := f.Payload(ActionSubmit)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if input.Status != inkwell.StatusDraft || input.PublishDate != nil {
		t.Fatalf("input = %+v, want draft with no schedule", input)
	}
}

func TestScheduleConvertedFromLocalZone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	f := NewCreateForm(loc, clock)
	f.SetTitle("Hello")
	f.SetContent("body")
	f.SetPublishDateLocal("2025-03-01T09:30")

	input, err := f.Payload(ActionSubmit)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	if input.PublishDate == nil || !input.PublishDate.Equal(want) {
		t.Fatalf("publish date = %v, want %v", input.PublishDate, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		content  string
		status   inkwell.Status
		schedule string
		action   Action
		want     []string
	}{
		{name: "valid", title: "t", content: "c", status: inkwell.StatusDraft},
		{name: "blank title", title: "  ", content: "c", status: inkwell.StatusDraft, want: []string{FieldTitle}},
		{name: "blank both", status: inkwell.StatusDraft, want: []string{FieldTitle, FieldContent}},
		{name: "bad schedule", title: "t", content: "c", status: inkwell.StatusDraft, schedule: "soon", want: []string{FieldPublishDate}},
		{name: "past schedule", title: "t", content: "c", status: inkwell.StatusDraft, schedule: "2025-03-01T11:59", want: []string{FieldPublishDate}},
		{name: "current minute", title: "t", content: "c", status: inkwell.StatusDraft, schedule: "2025-03-01T12:00"},
		{name: "past schedule ignored when publishing", title: "t", content: "c", status: inkwell.StatusPublished, schedule: "2025-03-01T11:59"},
		{name: "past schedule checked on save draft", title: "t", content: "c", status: inkwell.StatusPublished, schedule: "2025-03-01T11:59", action: ActionSaveDraft, want: []string{FieldPublishDate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewCreateForm(time.UTC, clock)
			f.SetTitle(tt.title)
			f.SetContent(tt.content)
			f.SetStatus(tt.status)
			f.SetPublishDateLocal(tt.schedule)

			errs := f.Validate(tt.action)
			if len(errs) != len(tt.want) {
				t.Fatalf("Validate = %v, want fields %v", errs, tt.want)
			}
			for _, field := range tt.want {
				if errs[field] == "" {
					t.Fatalf("Validate missing %q in %v", field, errs)
				}
			}
		})
	}
}

func TestSubmitLocalValidationSkipsSaver(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetContent("body")
	saver := &fakeSaver{}

	_, err := f.Submit(context.Background(), saver, nil, ActionSubmit)
	if !errors.Is(err, inkwell.ErrValidation) {
		t.Fatalf("Submit error = %v, want validation", err)
	}
	if saver.creates != 0 {
		t.Fatalf("creates = %d, want 0", saver.creates)
	}
	if f.FieldError(FieldTitle) != "This field is required." {
		t.Fatalf("title error = %q", f.FieldError(FieldTitle))
	}
	if f.Banner() != "" {
		t.Fatalf("banner = %q, want empty", f.Banner())
	}
}

func TestSubmitServerFieldErrors(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("body")
	saver := &fakeSaver{CreateFunc: func(context.Context, inkwell.ArticleInput) (*inkwell.Article, error) {
		return nil, &inkwell.APIError{
			Kind:   inkwell.KindValidation,
			Status: 400,
			Fields: map[string]string{"title": "article with this title already exists."},
		}
	}}

	_, err := f.Submit(context.Background(), saver, nil, ActionSubmit)
	if !errors.Is(err, inkwell.ErrValidation) {
		t.Fatalf("Submit error = %v, want validation", err)
	}
	if got := f.FieldError(FieldTitle); got != "article with this title already exists." {
		t.Fatalf("title error = %q", got)
	}
	if f.Banner() != "" {
		t.Fatalf("banner = %q, want empty", f.Banner())
	}
	if f.Mode() != ModeCreate {
		t.Fatalf("mode = %v, want create after failure", f.Mode())
	}
}

func TestSubmitUnknownErrorSetsBanner(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("body")
	saver := &fakeSaver{CreateFunc: func(context.Context, inkwell.ArticleInput) (*inkwell.Article, error) {
		return nil, errors.New("connection reset")
	}}

	_, err := f.Submit(context.Background(), saver, nil, ActionSubmit)
	if !errors.Is(err, inkwell.ErrUnknown) {
		t.Fatalf("Submit error = %v, want unknown", err)
	}
	if f.Banner() != "Failed to create article" {
		t.Fatalf("banner = %q, want Failed to create article", f.Banner())
	}
	if f.Errors() != nil {
		t.Fatalf("field errors = %v, want none", f.Errors())
	}
}

func TestCreateSwitchesToEdit(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("Hello")
	f.SetContent("body")
	saver := &fakeSaver{}
	actor := &inkwell.Actor{ID: 3, Username: "ann"}

	if _, err := f.Submit(context.Background(), saver, actor, ActionSubmit); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if f.Mode() != ModeEdit {
		t.Fatalf("mode = %v, want edit", f.Mode())
	}
	if f.Dirty() {
		t.Fatal("form dirty right after save")
	}

	f.SetTitle("Hello again")
	if _, err := f.Submit(context.Background(), saver, actor, ActionSubmit); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if saver.creates != 1 || saver.updates != 1 {
		t.Fatalf("creates=%d updates=%d, want 1 and 1", saver.creates, saver.updates)
	}
}

func TestEditRequiresChanges(t *testing.T) {
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft}
	f := NewEditForm(a, time.UTC, clock)
	saver := &fakeSaver{}
	actor := &inkwell.Actor{ID: 3}

	if f.CanSave() {
		t.Fatal("CanSave = true on untouched edit form")
	}
	if _, err := f.Submit(context.Background(), saver, actor, ActionSubmit); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("Submit error = %v, want ErrNoChanges", err)
	}
	if saver.updates != 0 {
		t.Fatalf("updates = %d, want 0", saver.updates)
	}

	f.SetTitle("Hello!")
	if !f.CanSave() {
		t.Fatal("CanSave = false after title change")
	}
	f.SetTitle("Hello")
	if f.Dirty() {
		t.Fatal("Dirty = true after reverting title")
	}
}

func TestEditRequiresActor(t *testing.T) {
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft}
	f := NewEditForm(a, time.UTC, clock)
	f.SetTitle("Changed")
	saver := &fakeSaver{}

	_, err := f.Submit(context.Background(), saver, nil, ActionSubmit)
	if !errors.Is(err, inkwell.ErrUnauthenticated) {
		t.Fatalf("Submit error = %v, want unauthenticated", err)
	}
	if saver.updates != 0 {
		t.Fatalf("updates = %d, want 0", saver.updates)
	}
}

func TestEditPublishClearsSchedule(t *testing.T) {
	when := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft, PublishDate: &when}
	f := NewEditForm(a, time.UTC, clock)
	if f.State().PublishDateLocal != "2025-03-05T09:00" {
		t.Fatalf("schedule = %q, want 2025-03-05T09:00", f.State().PublishDateLocal)
	}

	f.ToggleStatus()
	if f.ScheduleVisible() {
		t.Fatal("schedule visible while published")
	}

	var gotUser, gotID int64
	var sent inkwell.ArticleInput
	saver := &fakeSaver{UpdateFunc: func(_ context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error) {
		gotUser, gotID, sent = userID, id, input
		return &inkwell.Article{ID: id, Author: userID, Title: input.Title, Content: input.Content, Status: input.Status}, nil
	}}

	if _, err := f.Submit(context.Background(), saver, &inkwell.Actor{ID: 3}, ActionSubmit); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotUser != 3 || gotID != 9 {
		t.Fatalf("Update(%d, %d), want (3, 9)", gotUser, gotID)
	}
	if sent.Status != inkwell.StatusPublished || sent.PublishDate != nil {
		t.Fatalf("input = %+v, want published with no schedule", sent)
	}
}

func TestEditUpdateFailureBanner(t *testing.T) {
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft}
	f := NewEditForm(a, time.UTC, clock)
	f.SetContent("new body")
	saver := &fakeSaver{UpdateFunc: func(context.Context, int64, int64, inkwell.ArticleInput) (*inkwell.Article, error) {
		return nil, &inkwell.APIError{Kind: inkwell.KindForbidden, Status: 403}
	}}

	_, err := f.Submit(context.Background(), saver, &inkwell.Actor{ID: 3}, ActionSubmit)
	if !errors.Is(err, inkwell.ErrForbidden) {
		t.Fatalf("Submit error = %v, want forbidden", err)
	}
	if f.Banner() != "Failed to update article" {
		t.Fatalf("banner = %q", f.Banner())
	}
	if !f.Dirty() {
		t.Fatal("form lost unsaved changes after failure")
	}
}

func TestCreateFormNeverDirty(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetTitle("anything")
	if f.Dirty() {
		t.Fatal("Dirty = true in create mode")
	}
	if !f.CanSave() {
		t.Fatal("CanSave = false in create mode")
	}
}

func TestSetStatusIgnoresUnknown(t *testing.T) {
	f := NewCreateForm(time.UTC, clock)
	f.SetStatus(inkwell.Status("archived"))
	if f.State().Status != inkwell.StatusDraft {
		t.Fatalf("status = %q, want draft", f.State().Status)
	}
}

func TestFormMinimumSchedule(t *testing.T) {
	f := NewCreateForm(time.FixedZone("EST", -5*3600), clock)
	if got := f.MinimumSchedule(); got != "2025-03-01T07:00" {
		t.Fatalf("MinimumSchedule = %q, want 2025-03-01T07:00", got)
	}
}

func TestEditKeepsScheduleAcrossFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	// 01:30 EST, the second 01:30 of the 2025-11-02 fall-back night.
	when := time.Date(2025, 11, 2, 6, 30, 0, 0, time.UTC)
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft, PublishDate: &when}
	f := NewEditForm(a, ny, clock)
	if got := f.State().PublishDateLocal; got != "2025-11-02T01:30" {
		t.Fatalf("schedule = %q, want 2025-11-02T01:30", got)
	}

	var sent inkwell.ArticleInput
	saver := &fakeSaver{UpdateFunc: func(_ context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error) {
		sent = input
		return &inkwell.Article{ID: id, Author: userID, Title: input.Title, Content: input.Content, Status: input.Status, PublishDate: input.PublishDate}, nil
	}}

	f.SetTitle("Hello again")
	if _, err := f.Submit(context.Background(), saver, &inkwell.Actor{ID: 3}, ActionSaveDraft); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sent.PublishDate == nil || !sent.PublishDate.Equal(when) {
		t.Fatalf("PublishDate = %v, want %v", sent.PublishDate, when)
	}
	if f.Dirty() {
		t.Fatal("form dirty after save")
	}
}

func TestEditPastScheduleLeftAsLoaded(t *testing.T) {
	when := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	a := inkwell.Article{ID: 9, Author: 3, Title: "Hello", Content: "body", Status: inkwell.StatusDraft, PublishDate: &when}

	t.Run("unchanged schedule saves", func(t *testing.T) {
		f := NewEditForm(a, time.UTC, clock)
		f.SetTitle("Hello, fixed")

		var sent inkwell.ArticleInput
		saver := &fakeSaver{UpdateFunc: func(_ context.Context, userID, id int64, input inkwell.ArticleInput) (*inkwell.Article, error) {
			sent = input
			return &inkwell.Article{ID: id, Author: userID, Status: input.Status, PublishDate: input.PublishDate}, nil
		}}
		if _, err := f.Submit(context.Background(), saver, &inkwell.Actor{ID: 3}, ActionSaveDraft); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if sent.PublishDate == nil || !sent.PublishDate.Equal(when) {
			t.Fatalf("PublishDate = %v, want %v", sent.PublishDate, when)
		}
	})

	t.Run("moved to another past time fails", func(t *testing.T) {
		f := NewEditForm(a, time.UTC, clock)
		f.SetPublishDateLocal("2025-02-02T09:00")
		errs := f.Validate(ActionSaveDraft)
		if errs[FieldPublishDate] == "" {
			t.Fatalf("Validate = %v, want %s error", errs, FieldPublishDate)
		}
	})
}
