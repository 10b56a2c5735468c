// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mediawiki implements wiki.Fetcher over the MediaWiki action API.
package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/gurukul/wiki"
)

const (
	// DefaultEndpoint is the English Wikipedia action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

	defaultTimeout  = 15 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	userAgent       = "gurukul/1.0 (lesson generation pipeline)"
	relatedLimit    = "20"
)

// Client is an HTTP wiki.Fetcher.
type Client struct {
	endpoint    string
	http        *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

var _ wiki.Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the action API endpoint (e.g. another language
// edition or a test server).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-call HTTP timeout. Default is 15s; a hung upstream
// must never block a generation worker indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithRetry sets the retry budget and base backoff delay for transient
// upstream failures.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.retryDelay = baseDelay
		}
	}
}

// NewClient creates a MediaWiki fetcher.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		http:        &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultAttempts,
		retryDelay:  defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// Search returns candidate page titles for a free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprintf("%d", limit)},
		"format":   {"json"},
	}

	var resp searchResponse
	if err := c.call(ctx, params, &resp); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, result := range resp.Query.Search {
		titles = append(titles, result.Title)
	}
	return titles, nil
}

type pageResponse struct {
	Query struct {
		Pages map[string]struct {
			Missing   *string `json:"missing"`
			Title     string  `json:"title"`
			Extract   string  `json:"extract"`
			FullURL   string  `json:"fullurl"`
			PageProps struct {
				Disambiguation *string `json:"disambiguation"`
			} `json:"pageprops"`
			Links []struct {
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// Fetch retrieves one page by exact title, following redirects server-side.
func (c *Client) Fetch(ctx context.Context, title string) (*wiki.Page, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|info|links|pageprops"},
		"titles":      {title},
		"redirects":   {"1"},
		"explaintext": {"1"},
		"inprop":      {"url"},
		"plnamespace": {"0"},
		"pllimit":     {relatedLimit},
		"format":      {"json"},
	}

	var resp pageResponse
	if err := c.call(ctx, params, &resp); err != nil {
		return nil, err
	}

	for id, raw := range resp.Query.Pages {
		if id == "-1" || raw.Missing != nil {
			return nil, fmt.Errorf("%w: %q", wiki.ErrPageNotFound, title)
		}

		page := &wiki.Page{
			Title:          raw.Title,
			Content:        raw.Extract,
			Summary:        leadParagraph(raw.Extract),
			URL:            raw.FullURL,
			Disambiguation: raw.PageProps.Disambiguation != nil,
		}
		for _, link := range raw.Links {
			page.Related = append(page.Related, link.Title)
		}
		if page.Disambiguation {
			// The listed options of a disambiguation page are its links.
			page.Options = page.Related
		}
		return page, nil
	}

	return nil, fmt.Errorf("%w: %q", wiki.ErrPageNotFound, title)
}

// call performs one API request, retrying transport failures and server
// errors with backoff. Client errors (4xx) are final.
func (c *Client) call(ctx context.Context, params url.Values, out any) error {
	var permanent error
	err := retryWithBackoff(ctx, func() error {
		err := c.callOnce(ctx, params, out)
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			permanent = err
			return nil
		}
		return err
	}, c.maxAttempts, c.retryDelay)
	if permanent != nil {
		return permanent
	}
	return err
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("mediawiki: unexpected status %d", e.code)
}

func (c *Client) callOnce(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// leadParagraph returns the first paragraph of a plain-text extract.
func leadParagraph(extract string) string {
	extract = strings.TrimSpace(extract)
	if idx := strings.Index(extract, "\n"); idx > 0 {
		return strings.TrimSpace(extract[:idx])
	}
	return extract
}
