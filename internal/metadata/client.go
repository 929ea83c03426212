// Package metadata looks up book details from the external volume catalog.
// The catalog is consumed read-only; results prefill the add-book form.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Volume is one search hit, flattened from the catalog's volumeInfo shape.
type Volume struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Language      string   `json:"language,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

type searchResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
			PageCount     int      `json:"pageCount"`
			Language      string   `json:"language"`
			ImageLinks    struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
)

// Client talks to the catalog with a shared rate limit and bounded retries
// on 429 and 5xx responses.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// Search queries the catalog and returns up to limit volumes.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Volume, error) {
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d",
		c.baseURL, url.QueryEscape(query), limit)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		volumes, retryable, err := c.doSearch(ctx, endpoint)
		if err == nil {
			return volumes, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("metadata search: %w", lastErr)
}

func (c *Client) doSearch(ctx context.Context, endpoint string) ([]Volume, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("catalog returned %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("catalog returned %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode catalog response: %w", err)
	}

	volumes := make([]Volume, 0, len(body.Items))
	for _, item := range body.Items {
		info := item.VolumeInfo
		volumes = append(volumes, Volume{
			Title:         info.Title,
			Authors:       info.Authors,
			Publisher:     info.Publisher,
			PublishedDate: info.PublishedDate,
			PageCount:     info.PageCount,
			Language:      info.Language,
			Thumbnail:     info.ImageLinks.Thumbnail,
		})
	}
	return volumes, false, nil
}
