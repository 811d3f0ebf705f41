package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/five82/nib/internal/access"
	"github.com/five82/nib/internal/draft"
	"github.com/five82/nib/internal/frontmatter"
	"github.com/five82/nib/internal/inkwell"
)

// Import creates an article from the Markdown file at path and prints where
// it landed.
func Import(ctx context.Context, opts Options, path string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	doc, err := frontmatter.ParseFile(path)
	if err != nil {
		return err
	}

	article, err := importDocument(ctx, e.client, e.actor, doc, e.cfg.Location(), time.Now)
	if err != nil {
		e.logger.Warn("import failed", "path", path, "error", err)
		return fmt.Errorf("import %s: %w", path, err)
	}
	e.logger.Info("article imported", "path", path, "id", article.ID, "status", article.Status)

	_, _ = fmt.Fprintf(opts.stdout(), "Created %q (%s) as %s\n", article.Title, article.Ref(), describeStatus(*article, e.cfg.Location()))
	return nil
}

// importDocument pushes doc through the same form rules the editor uses.
func importDocument(ctx context.Context, saver draft.Saver, actor *inkwell.Actor, doc frontmatter.Document, loc *time.Location, now func() time.Time) (*inkwell.Article, error) {
	if actor == nil {
		return nil, &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Detail: "sign in to import articles"}
	}

	form := draft.NewCreateForm(loc, now)
	form.SetTitle(doc.Title)
	form.SetContent(doc.Content)

	switch doc.Status {
	case "", string(inkwell.StatusDraft):
		form.SetStatus(inkwell.StatusDraft)
	case string(inkwell.StatusPublished):
		form.SetStatus(inkwell.StatusPublished)
	default:
		return nil, fmt.Errorf("unknown status %q: want draft or published", doc.Status)
	}

	schedule, err := scheduleInput(doc.PublishDate, loc)
	if err != nil {
		return nil, err
	}
	form.SetPublishDateLocal(schedule)

	article, err := form.Submit(ctx, saver, actor, draft.ActionSubmit)
	if err != nil {
		if fields := form.Errors(); len(fields) > 0 {
			return nil, fmt.Errorf("%w: %s", err, formatFieldErrors(fields))
		}
		return nil, err
	}
	return article, nil
}

// scheduleInput accepts either an RFC 3339 instant or a wall-clock value in
// the schedule input format.
func scheduleInput(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return draft.ToLocalInput(&t, loc), nil
	}
	if _, err := draft.FromLocalInput(value, loc); err != nil {
		return "", fmt.Errorf("publish_date: %w", err)
	}
	return value, nil
}

func formatFieldErrors(fields draft.FieldErrors) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, "; ")
}

func describeStatus(a inkwell.Article, loc *time.Location) string {
	if a.Scheduled() {
		return "a draft scheduled for " + a.PublishDate.In(loc).Format("2006-01-02 15:04 MST")
	}
	return strings.ToLower(a.Status.Label())
}

// DeleteArticle resolves ident and deletes it after a y/N prompt.
func DeleteArticle(ctx context.Context, opts Options, ident string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	out := opts.stdout()
	deleted, err := deleteByIdent(ctx, access.NewResolver(e.client, e.logger), e.client, e.actor, ident, PromptConfirm(opts.stdin(), out))
	if err != nil {
		e.logger.Warn("delete failed", "ident", ident, "error", err)
		return err
	}
	if !deleted {
		_, _ = fmt.Fprintln(out, "Cancelled")
		return nil
	}
	e.logger.Info("article deleted", "ident", ident)
	_, _ = fmt.Fprintln(out, "Deleted")
	return nil
}

func deleteByIdent(ctx context.Context, resolver *access.Resolver, deleter access.Deleter, actor *inkwell.Actor, ident string, confirm access.Confirm) (bool, error) {
	if actor == nil {
		return false, &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Detail: "sign in to delete articles"}
	}
	article, err := resolver.Resolve(ctx, ident, actor)
	if err != nil {
		return false, fmt.Errorf("%s: %w", access.LoadMessage(err), err)
	}
	return access.Delete(ctx, deleter, confirm, actor, *article)
}

// PromptConfirm asks on out and reads the answer from in. Only "y" or "yes"
// approves; end of input declines.
func PromptConfirm(in io.Reader, out io.Writer) access.Confirm {
	reader := bufio.NewReader(in)
	return func(_ context.Context, a inkwell.Article) (bool, error) {
		if _, err := fmt.Fprintf(out, "Delete %q? This cannot be undone. [y/N] ", a.Title); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
