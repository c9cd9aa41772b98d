package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for the energy source. It is
// called per request, so rotating tokens need no client rebuild. A nil
// TokenSource sends unauthenticated requests.
type TokenSource func(ctx context.Context) (string, error)

// SourceClient fetches building data over HTTP. It serves both the
// bulk feed the poller consumes and the per-building attribute
// endpoint, which is keyed by the secondary identifier.
type SourceClient struct {
	client        *http.Client
	bulkURL       string
	attributesURL string
	tokenSource   TokenSource
}

// NewSourceClient creates a client for the given endpoints.
// attributesURL may contain a %s placeholder for the building key;
// without one the key is appended as a path segment.
func NewSourceClient(bulkURL, attributesURL string, timeout time.Duration, tokenSource TokenSource) *SourceClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SourceClient{
		client:        &http.Client{Timeout: timeout},
		bulkURL:       bulkURL,
		attributesURL: attributesURL,
		tokenSource:   tokenSource,
	}
}

// FetchAll retrieves the complete bulk payload.
func (c *SourceClient) FetchAll(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.bulkURL)
}

// FetchAttributes retrieves the detail document for one building. The
// key must be the secondary identifier; the attribute endpoint does
// not understand the primary form.
func (c *SourceClient) FetchAttributes(ctx context.Context, secondaryKey string) ([]byte, error) {
	if c.attributesURL == "" {
		return nil, fmt.Errorf("no attributes endpoint configured")
	}

	url := c.attributesURL
	if strings.Contains(url, "%s") {
		url = fmt.Sprintf(url, secondaryKey)
	} else {
		url = strings.TrimRight(url, "/") + "/" + secondaryKey
	}
	return c.get(ctx, url)
}

func (c *SourceClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokenSource != nil {
		token, err := c.tokenSource(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("expected status in 200-299 range, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}
