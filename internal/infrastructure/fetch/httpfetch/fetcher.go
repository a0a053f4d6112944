package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

const defaultTimeout = 60 * time.Second

// Fetcher retrieves URL-sourced PDF documents. No retries: a failed fetch is
// reported to the user with the underlying detail.
type Fetcher struct {
	httpClient *http.Client
}

func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrFetch, "create fetch request", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrFetch, "fetch document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.WrapError(domain.ErrFetch, "fetch document", fmt.Errorf("unexpected status %s for %s", resp.Status, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrFetch, "read document body", err)
	}
	return body, nil
}
