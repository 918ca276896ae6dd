// Package readwise is a minimal client for the Readwise Reader v3 list API.
package readwise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://readwise.io/api/v3/list/"

// HTTPClient allows injecting a mock transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Document is a saved article as returned by the Reader API.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	HTMLContent string `json:"html_content"`
	Summary     string `json:"summary"`
	SourceURL   string `json:"source_url"`
}

// Content returns the full article text, falling back to the summary when
// no HTML content was captured.
func (d Document) Content() string {
	if d.HTMLContent != "" {
		return d.HTMLContent
	}
	return d.Summary
}

type listResponse struct {
	Results        []Document `json:"results"`
	NextPageCursor string     `json:"nextPageCursor"`
}

type Client struct {
	token   string
	baseURL string
	http    HTTPClient
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ListRecent fetches documents in location "new" updated after the given
// time, following the page cursor until the listing is exhausted.
func (c *Client) ListRecent(ctx context.Context, updatedAfter time.Time) ([]Document, error) {
	var docs []Document
	cursor := ""

	for {
		page, err := c.listPage(ctx, updatedAfter, cursor)
		if err != nil {
			return nil, err
		}
		docs = append(docs, page.Results...)
		if page.NextPageCursor == "" {
			return docs, nil
		}
		cursor = page.NextPageCursor
	}
}

func (c *Client) listPage(ctx context.Context, updatedAfter time.Time, cursor string) (*listResponse, error) {
	params := url.Values{}
	params.Set("updatedAfter", updatedAfter.UTC().Format(time.RFC3339))
	params.Set("withHtmlContent", "true")
	params.Set("location", "new")
	if cursor != "" {
		params.Set("pageCursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("readwise request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("readwise API returned status %s", resp.Status)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode readwise response: %w", err)
	}
	return &page, nil
}
