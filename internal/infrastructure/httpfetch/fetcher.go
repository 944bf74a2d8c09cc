package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/ports"
)

const defaultUserAgent = "CategoryScanner/1.0"

// Fetcher implements ports.PageFetcher over net/http. A single http.Client is
// shared by all concurrent callers.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client falls back to a client without
// a request timeout.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch performs a GET and reads the whole body. Non-2xx responses are
// returned as pages; callers decide what a status means.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("request %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Page{}, fmt.Errorf("read %s: %w", pageURL, err)
	}

	return domain.Page{URL: pageURL, Status: resp.StatusCode, Body: body}, nil
}
