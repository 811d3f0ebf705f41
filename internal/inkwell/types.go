package inkwell

import (
	"time"
)

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Label returns the display label for the status.
func (s Status) Label() string {
	switch s {
	case StatusPublished:
		return "Published"
	case StatusDraft:
		return "Draft"
	default:
		return "Unknown"
	}
}

// Article mirrors a single article as served by the Inkwell API.
type Article struct {
	ID                int64      `json:"id"`
	Slug              string     `json:"slug"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Status            Status     `json:"status"`
	PublishDate       *time.Time `json:"publish_date"`
	Author            int64      `json:"author"`
	AuthorUsername    string     `json:"author_username"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
	EstimatedReadTime int        `json:"estimated_read_time"`
}

// Scheduled reports whether the article is a draft with a pending publish date.
func (a Article) Scheduled() bool {
	return a.Status == StatusDraft && a.PublishDate != nil
}

// Ref returns the identifier used in public links: the slug when known,
// otherwise the numeric id.
func (a Article) Ref() string {
	if a.Slug != "" {
		return a.Slug
	}
	return formatID(a.ID)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (a Article) ParsedCreatedAt() time.Time {
	return parseTime(a.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (a Article) ParsedUpdatedAt() time.Time {
	return parseTime(a.UpdatedAt)
}

// WasEdited reports whether the article changed after creation.
func (a Article) WasEdited() bool {
	created, updated := a.ParsedCreatedAt(), a.ParsedUpdatedAt()
	if created.IsZero() || updated.IsZero() {
		return a.UpdatedAt != "" && a.UpdatedAt != a.CreatedAt
	}
	return !updated.Equal(created)
}

// ArticlePage mirrors a paginated list response.
type ArticlePage struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Article `json:"results"`
}

// ArticleInput is the body sent on create and update. PublishDate is always
// serialized so that a null clears a previous schedule.
type ArticleInput struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Status      Status     `json:"status"`
	PublishDate *time.Time `json:"publish_date"`
}

// Actor identifies the authenticated user performing an action.
type Actor struct {
	ID       int64
	Username string
}

// PageQuery selects a page of a list endpoint.
type PageQuery struct {
	Page     int
	PageSize int
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
