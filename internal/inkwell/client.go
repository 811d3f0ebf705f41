package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleFetcher is the read side of the Inkwell API.
type ArticleFetcher interface {
	ListPublic(ctx context.Context, query PageQuery) (ArticlePage, error)
	GetPublic(ctx context.Context, idOrSlug string) (*Article, error)
	ListOwned(ctx context.Context, userID int64, query PageQuery) (ArticlePage, error)
	GetOwned(ctx context.Context, userID int64, idOrSlug string) (*Article, error)
}

// ArticleWriter is the write side of the Inkwell API.
type ArticleWriter interface {
	Create(ctx context.Context, input ArticleInput) (*Article, error)
	Update(ctx context.Context, userID, id int64, input ArticleInput) (*Article, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Ensure Client implements both halves at compile time.
var (
	_ ArticleFetcher = (*Client)(nil)
	_ ArticleWriter  = (*Client)(nil)
)

// Client talks to the Inkwell HTTP API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	authScheme string
	token      string
}

const (
	defaultBaseURL    = "http://127.0.0.1:8000/api/"
	defaultUserAgent  = "nib/0.1"
	defaultAuthScheme = "Bearer"
	requestTimeout    = 10 * time.Second
	maxErrorBody      = 64 << 10
)

// NewClient builds a Client rooted at baseURL. The URL may carry a path
// prefix; endpoint paths are resolved beneath it.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:  defaultUserAgent,
		authScheme: defaultAuthScheme,
	}, nil
}

// WithToken returns a copy of c that authenticates with token. scheme
// defaults to Bearer when blank.
func (c *Client) WithToken(scheme, token string) *Client {
	dup := *c
	dup.token = strings.TrimSpace(token)
	if s := strings.TrimSpace(scheme); s != "" {
		dup.authScheme = s
	}
	return &dup
}

// Authenticated reports whether requests carry credentials.
func (c *Client) Authenticated() bool {
	return c != nil && c.token != ""
}

// ListPublic retrieves a page of articles visible to everyone.
func (c *Client) ListPublic(ctx context.Context, query PageQuery) (ArticlePage, error) {
	if c == nil {
		return ArticlePage{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "articles/public_articles/", RawQuery: query.encode()}
	var page ArticlePage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &page); err != nil {
		return ArticlePage{}, err
	}
	return page, nil
}

// GetPublic retrieves a single public article by id or slug.
func (c *Client) GetPublic(ctx context.Context, idOrSlug string) (*Article, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	ref, err := cleanRef(idOrSlug)
	if err != nil {
		return nil, err
	}
	var article Article
	if err := c.do(ctx, http.MethodGet, "articles/public_articles/"+ref+"/", nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ListOwned retrieves a page of the given user's articles, drafts included.
func (c *Client) ListOwned(ctx context.Context, userID int64, query PageQuery) (ArticlePage, error) {
	if c == nil {
		return ArticlePage{}, fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return ArticlePage{}, &APIError{Kind: KindUnauthenticated, Detail: "user id required"}
	}
	rel := &url.URL{Path: ownedPath(userID), RawQuery: query.encode()}
	var page ArticlePage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &page); err != nil {
		return ArticlePage{}, err
	}
	return page, nil
}

// ListMine is ListOwned for the current actor.
func (c *Client) ListMine(ctx context.Context, actor *Actor, query PageQuery) (ArticlePage, error) {
	if actor == nil {
		return ArticlePage{}, &APIError{Kind: KindUnauthenticated, Detail: "sign in to list your articles"}
	}
	return c.ListOwned(ctx, actor.ID, query)
}

// GetOwned retrieves one of the given user's articles by id or slug.
func (c *Client) GetOwned(ctx context.Context, userID int64, idOrSlug string) (*Article, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return nil, &APIError{Kind: KindUnauthenticated, Detail: "user id required"}
	}
	ref, err := cleanRef(idOrSlug)
	if err != nil {
		return nil, err
	}
	var article Article
	if err := c.do(ctx, http.MethodGet, ownedPath(userID)+ref+"/", nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Create submits a new article.
func (c *Client) Create(ctx context.Context, input ArticleInput) (*Article, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var article Article
	if err := c.do(ctx, http.MethodPost, "articles/create/", input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Update applies input to one of the user's articles.
func (c *Client) Update(ctx context.Context, userID, id int64, input ArticleInput) (*Article, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return nil, &APIError{Kind: KindUnauthenticated, Detail: "user id required"}
	}
	var article Article
	if err := c.do(ctx, http.MethodPatch, ownedPath(userID)+formatID(id)+"/", input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Delete removes one of the user's articles.
func (c *Client) Delete(ctx context.Context, userID, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return &APIError{Kind: KindUnauthenticated, Detail: "user id required"}
	}
	return c.do(ctx, http.MethodDelete, ownedPath(userID)+formatID(id)+"/", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.authScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindUnknown, Path: rel.Path, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		fields, detail := parseErrorBody(payload)
		return &APIError{
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Path:   rel.Path,
			Fields: fields,
			Detail: detail,
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &APIError{Kind: KindUnknown, Status: resp.StatusCode, Path: rel.Path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (q PageQuery) encode() string {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values.Encode()
}

func ownedPath(userID int64) string {
	return "articles/user_articles/" + formatID(userID) + "/"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func cleanRef(idOrSlug string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(idOrSlug), "/")
	if trimmed == "" {
		return "", &APIError{Kind: KindNotFound, Detail: "identifier is empty"}
	}
	return trimmed, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
