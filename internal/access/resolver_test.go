package access

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/nib/internal/inkwell"
)

type fakeLookup struct {
	GetOwnedFunc  func(ctx context.Context, userID int64, ident string) (*inkwell.Article, error)
	GetPublicFunc func(ctx context.Context, ident string) (*inkwell.Article, error)

	ownedCalls  int
	publicCalls int
}

func (f *fakeLookup) GetOwned(ctx context.Context, userID int64, ident string) (*inkwell.Article, error) {
	f.ownedCalls++
	if f.GetOwnedFunc != nil {
		return f.GetOwnedFunc(ctx, userID, ident)
	}
	return nil, &inkwell.APIError{Kind: inkwell.KindNotFound, Status: 404}
}

func (f *fakeLookup) GetPublic(ctx context.Context, ident string) (*inkwell.Article, error) {
	f.publicCalls++
	if f.GetPublicFunc != nil {
		return f.GetPublicFunc(ctx, ident)
	}
	return nil, &inkwell.APIError{Kind: inkwell.KindNotFound, Status: 404}
}

func TestResolveOwnedHit(t *testing.T) {
	lookup := &fakeLookup{GetOwnedFunc: func(_ context.Context, userID int64, ident string) (*inkwell.Article, error) {
		if userID != 3 || ident != "my-draft" {
			t.Fatalf("GetOwned(%d, %q), want (3, my-draft)", userID, ident)
		}
		return &inkwell.Article{ID: 1, Author: 3, Status: inkwell.StatusDraft}, nil
	}}
	r := NewResolver(lookup, nil)

	got, err := r.Resolve(context.Background(), "my-draft", &inkwell.Actor{ID: 3})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("article id = %d, want 1", got.ID)
	}
	if lookup.publicCalls != 0 {
		t.Fatalf("public calls = %d, want 0", lookup.publicCalls)
	}
}

func TestResolveFallsBackOnceOnNotFound(t *testing.T) {
	lookup := &fakeLookup{GetPublicFunc: func(context.Context, string) (*inkwell.Article, error) {
		return &inkwell.Article{ID: 2, Author: 8, Status: inkwell.StatusPublished}, nil
	}}
	r := NewResolver(lookup, nil)

	got, err := r.Resolve(context.Background(), "someone-elses", &inkwell.Actor{ID: 3})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 2 {
		t.Fatalf("article id = %d, want 2", got.ID)
	}
	if lookup.ownedCalls != 1 || lookup.publicCalls != 1 {
		t.Fatalf("calls owned=%d public=%d, want 1 and 1", lookup.ownedCalls, lookup.publicCalls)
	}
}

func TestResolveBothNotFound(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	_, err := r.Resolve(context.Background(), "missing", &inkwell.Actor{ID: 3})
	if !errors.Is(err, inkwell.ErrNotFound) {
		t.Fatalf("Resolve error = %v, want not found", err)
	}
	if lookup.ownedCalls != 1 || lookup.publicCalls != 1 {
		t.Fatalf("calls owned=%d public=%d, want 1 and 1", lookup.ownedCalls, lookup.publicCalls)
	}
}

func TestResolveDoesNotFallBackOnOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"forbidden", &inkwell.APIError{Kind: inkwell.KindForbidden, Status: 403}, inkwell.ErrForbidden},
		{"unauthenticated", &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Status: 401}, inkwell.ErrUnauthenticated},
		{"server error", &inkwell.APIError{Kind: inkwell.KindUnknown, Status: 500}, inkwell.ErrUnknown},
		{"unclassified", errors.New("connection refused"), inkwell.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{GetOwnedFunc: func(context.Context, int64, string) (*inkwell.Article, error) {
				return nil, tt.err
			}}
			r := NewResolver(lookup, nil)

			_, err := r.Resolve(context.Background(), "x", &inkwell.Actor{ID: 3})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve error = %v, want %v", err, tt.want)
			}
			if lookup.publicCalls != 0 {
				t.Fatalf("public calls = %d, want 0", lookup.publicCalls)
			}
		})
	}
}

func TestResolveWithoutActorUsesPublicOnly(t *testing.T) {
	lookup := &fakeLookup{GetPublicFunc: func(_ context.Context, ident string) (*inkwell.Article, error) {
		return &inkwell.Article{ID: 5, Slug: ident}, nil
	}}
	r := NewResolver(lookup, nil)

	got, err := r.Resolve(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Slug != "hello" {
		t.Fatalf("slug = %q, want hello", got.Slug)
	}
	if lookup.ownedCalls != 0 || lookup.publicCalls != 1 {
		t.Fatalf("calls owned=%d public=%d, want 0 and 1", lookup.ownedCalls, lookup.publicCalls)
	}
}

func TestResolveBlankIdentifier(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	_, err := r.Resolve(context.Background(), "  ", &inkwell.Actor{ID: 3})
	if !errors.Is(err, inkwell.ErrNotFound) {
		t.Fatalf("Resolve error = %v, want not found", err)
	}
	if lookup.ownedCalls+lookup.publicCalls != 0 {
		t.Fatalf("lookup called %d times, want 0", lookup.ownedCalls+lookup.publicCalls)
	}
}

func TestCanModify(t *testing.T) {
	a := inkwell.Article{ID: 1, Author: 3}
	tests := []struct {
		name  string
		actor *inkwell.Actor
		want  bool
	}{
		{"anonymous", nil, false},
		{"author", &inkwell.Actor{ID: 3}, true},
		{"other user", &inkwell.Actor{ID: 4}, false},
		{"zero id", &inkwell.Actor{ID: 0}, false},
	}
	for _, tt := range tests {
		if got := CanModify(tt.actor, a); got != tt.want {
			t.Errorf("%s: CanModify = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&inkwell.APIError{Kind: inkwell.KindNotFound}, "Article not found"},
		{&inkwell.APIError{Kind: inkwell.KindForbidden}, "You do not have permission to view this article"},
		{&inkwell.APIError{Kind: inkwell.KindUnknown}, "Failed to load article"},
		{errors.New("boom"), "Failed to load article"},
	}
	for _, tt := range tests {
		if got := LoadMessage(tt.err); got != tt.want {
			t.Errorf("LoadMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
