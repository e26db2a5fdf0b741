// Package fetch retrieves the readable text of a remote page.
package fetch

import (
	"context"
	"fmt"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Fetcher returns the extracted plain text of the page at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

// NewFetcher selects a fetcher implementation by type.
// The http fetcher is the default; chromedp renders JS-heavy pages in
// headless Chrome before extraction.
func NewFetcher(fetcherType FetcherType, timeout time.Duration) (Fetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch fetcherType {
	case HTTPFetcherType, "":
		return &HTTPFetcher{Timeout: timeout}, nil
	case ChromedpFetcherType:
		return &ChromedpFetcher{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", fetcherType)
	}
}
