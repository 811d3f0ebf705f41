package access

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/five82/nib/internal/inkwell"
)

// Lookup fetches a single article through either visibility scope.
// *inkwell.Client satisfies it.
type Lookup interface {
	GetOwned(ctx context.Context, userID int64, idOrSlug string) (*inkwell.Article, error)
	GetPublic(ctx context.Context, idOrSlug string) (*inkwell.Article, error)
}

var _ Lookup = (*inkwell.Client)(nil)

// Resolver finds an article the actor is allowed to see. Owners see their own
// drafts; everyone sees published articles.
type Resolver struct {
	lookup Lookup
	logger *slog.Logger
}

// NewResolver returns a Resolver backed by lookup. A nil logger discards.
func NewResolver(lookup Lookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve looks ident up in the actor's own articles first and falls back to
// the public scope exactly once, and only when the owned lookup reports not
// found. Without an actor only the public scope is consulted.
func (r *Resolver) Resolve(ctx context.Context, ident string, actor *inkwell.Actor) (*inkwell.Article, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return nil, &inkwell.APIError{Kind: inkwell.KindNotFound, Detail: "empty article identifier"}
	}

	if actor != nil {
		r.logger.Debug("resolve owned article", "ident", ident, "user_id", actor.ID)
		article, err := r.lookup.GetOwned(ctx, actor.ID, ident)
		if err == nil {
			return article, nil
		}
		err = inkwell.Classify(err)
		if !errors.Is(err, inkwell.ErrNotFound) {
			r.logger.Debug("owned lookup failed", "ident", ident, "kind", inkwell.KindOf(err).String(), "error", err)
			return nil, err
		}
	}

	r.logger.Debug("resolve public article", "ident", ident)
	article, err := r.lookup.GetPublic(ctx, ident)
	if err != nil {
		err = inkwell.Classify(err)
		r.logger.Debug("public lookup failed", "ident", ident, "kind", inkwell.KindOf(err).String(), "error", err)
		return nil, err
	}
	return article, nil
}

// CanModify reports whether actor authored a.
func CanModify(actor *inkwell.Actor, a inkwell.Article) bool {
	return actor != nil && actor.ID > 0 && actor.ID == a.Author
}

// LoadMessage maps a resolve failure to the text shown in place of the article.
func LoadMessage(err error) string {
	switch inkwell.KindOf(err) {
	case inkwell.KindNotFound:
		return "Article not found"
	case inkwell.KindForbidden:
		return "You do not have permission to view this article"
	default:
		return "Failed to load article"
	}
}
