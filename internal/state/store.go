package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/five82/nib/internal/inkwell"
)

// Scope selects which article list the store tracks.
type Scope int

const (
	// ScopeFeed lists published articles from every author.
	ScopeFeed Scope = iota
	// ScopeMine lists the signed-in user's articles, drafts included.
	ScopeMine
)

func (s Scope) String() string {
	if s == ScopeMine {
		return "mine"
	}
	return "feed"
}

// ParseScope maps a preference value to a scope. Unknown values are the feed.
func ParseScope(v string) Scope {
	if v == "mine" {
		return ScopeMine
	}
	return ScopeFeed
}

const defaultPageSize = 10

// Query identifies one page of one list.
type Query struct {
	Scope    Scope
	Page     int
	PageSize int
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	return q
}

// Snapshot represents the latest list data available to the UI.
type Snapshot struct {
	Query               Query
	Generation          uint64
	Articles            []inkwell.Article
	Count               int
	HasNext             bool
	HasPrevious         bool
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// TotalPages returns ceil(Count/PageSize), never less than one.
func (s Snapshot) TotalPages() int {
	size := s.Query.normalized().PageSize
	pages := (s.Count + size - 1) / size
	return max(1, pages)
}

// Store coordinates concurrent updates to the snapshot.
//
// Every query change bumps a generation number. Fetches capture the
// generation when they start and Update drops results from older
// generations, so a slow response for page 1 cannot overwrite page 2.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetQuery switches the tracked list and returns the new generation. Data
// from a different list or page is cleared.
func (s *Store) SetQuery(q Query) uint64 {
	q = q.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	if q != s.snapshot.Query {
		s.snapshot.Articles = nil
		s.snapshot.Count = 0
		s.snapshot.HasNext = false
		s.snapshot.HasPrevious = false
		s.snapshot.HasData = false
	}
	s.snapshot.Query = q
	s.snapshot.Generation++
	return s.snapshot.Generation
}

// Current returns the tracked query and its generation.
func (s *Store) Current() (Query, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Query.normalized(), s.snapshot.Generation
}

// Update records the result of a fetch started at generation gen. It reports
// false, changing nothing, when gen is stale. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(gen uint64, page *inkwell.ArticlePage, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.snapshot.Generation {
		return false
	}

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return true
	}

	if page != nil {
		s.snapshot.Articles = cloneArticles(page.Results)
		s.snapshot.Count = page.Count
		s.snapshot.HasNext = page.Next != nil
		s.snapshot.HasPrevious = page.Previous != nil
		s.snapshot.HasData = true
	} else {
		s.snapshot.Articles = nil
		s.snapshot.Count = 0
		s.snapshot.HasNext = false
		s.snapshot.HasPrevious = false
		s.snapshot.HasData = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Remove drops the article with id after the server confirmed its deletion.
// It reports whether the article was present. Removal bumps the generation,
// so fetches started before it cannot bring the article back.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.snapshot.Articles {
		if a.ID != id {
			continue
		}
		s.snapshot.Articles = append(cloneArticles(s.snapshot.Articles[:i]), s.snapshot.Articles[i+1:]...)
		if s.snapshot.Count > 0 {
			s.snapshot.Count--
		}
		s.snapshot.Generation++
		return true
	}
	return false
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Query = snap.Query.normalized()
	snap.Articles = cloneArticles(s.snapshot.Articles)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Lister fetches article pages. *inkwell.Client satisfies it.
type Lister interface {
	ListPublic(ctx context.Context, query inkwell.PageQuery) (inkwell.ArticlePage, error)
	ListOwned(ctx context.Context, userID int64, query inkwell.PageQuery) (inkwell.ArticlePage, error)
}

var _ Lister = (*inkwell.Client)(nil)

// Refresh fetches the store's current query and records the result. The
// returned error is the fetch error, if any; a result that went stale while
// in flight is discarded silently.
func Refresh(ctx context.Context, store *Store, lister Lister, actor *inkwell.Actor) error {
	q, gen := store.Current()
	page, err := Fetch(ctx, lister, actor, q)
	if err != nil {
		store.Update(gen, nil, err)
		return err
	}
	store.Update(gen, &page, nil)
	return nil
}

// Fetch loads the page q names. The mine scope requires an actor.
func Fetch(ctx context.Context, lister Lister, actor *inkwell.Actor, q Query) (inkwell.ArticlePage, error) {
	q = q.normalized()
	pq := inkwell.PageQuery{Page: q.Page, PageSize: q.PageSize}
	if q.Scope == ScopeMine {
		if actor == nil {
			return inkwell.ArticlePage{}, &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Detail: "sign in to list your articles"}
		}
		return lister.ListOwned(ctx, actor.ID, pq)
	}
	return lister.ListPublic(ctx, pq)
}

func cloneArticles(items []inkwell.Article) []inkwell.Article {
	if len(items) == 0 {
		return nil
	}
	dup := make([]inkwell.Article, len(items))
	copy(dup, items)
	return dup
}
