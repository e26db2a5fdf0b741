package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campuslab/campusite/internal/htmltext"
)

// HTTPFetcher downloads a page with a plain GET and extracts the text of
// its paragraph, heading and list elements.
type HTTPFetcher struct {
	Timeout time.Duration
	Client  *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("invalid url")
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status: %d", url, resp.StatusCode)
	}
	text, err := htmltext.Elements(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return text, nil
}
