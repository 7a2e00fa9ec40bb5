// Package news fetches the station's news feed from its WordPress site.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	defaultPerPage = 10

	// Large enough for any sane feed page, small enough to bound a
	// misbehaving server.
	maxBodySize = 4 * 1024 * 1024

	totalPagesHeader = "X-WP-TotalPages"
)

// Config holds the feed endpoint settings.
type Config struct {
	// BaseURL is the site root, e.g. https://ambientestereo.fm.
	// The wp-json path is appended by the client.
	BaseURL string
	Timeout time.Duration
	PerPage int
}

// Client is a thin reader for the WordPress REST v2 API. It does no caching
// and no retries; callers decide when to refetch.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a feed client. Zero-valued timeout and page size fall
// back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// wire shapes for the WordPress REST v2 API.

type renderedField struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID         int           `json:"id"`
	Date       string        `json:"date_gmt"`
	Link       string        `json:"link"`
	Title      renderedField `json:"title"`
	Excerpt    renderedField `json:"excerpt"`
	Categories []int         `json:"categories"`
}

type wpCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Articles fetches one page of posts, newest first. Page numbers start at 1.
func (c *Client) Articles(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	q.Set("_fields", "id,date_gmt,link,title,excerpt,categories")

	var posts []wpPost
	resp, err := c.get(ctx, "/wp-json/wp/v2/posts", q, &posts)
	if err != nil {
		return Page{}, err
	}

	totalPages := page
	if v := resp.Header.Get(totalPagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			totalPages = n
		}
	}

	articles := make([]Article, 0, len(posts))
	for _, p := range posts {
		published, _ := time.Parse("2006-01-02T15:04:05", p.Date)
		articles = append(articles, Article{
			ID:         p.ID,
			Title:      StripHTML(p.Title.Rendered),
			Excerpt:    StripHTML(p.Excerpt.Rendered),
			Link:       p.Link,
			Published:  published,
			Categories: p.Categories,
		})
	}

	return Page{Articles: articles, Number: page, TotalPages: totalPages}, nil
}

// Categories fetches the non-empty post categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	q.Set("hide_empty", "true")
	q.Set("_fields", "id,name,count")

	var cats []wpCategory
	if _, err := c.get(ctx, "/wp-json/wp/v2/categories", q, &cats); err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(cats))
	for _, wc := range cats {
		out = append(out, Category{ID: wc.ID, Name: StripHTML(wc.Name), Count: wc.Count})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, into any) (*http.Response, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return resp, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML flattens a rendered WordPress field into plain text: tags
// removed, entities decoded, whitespace normalized.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
