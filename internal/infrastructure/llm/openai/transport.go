package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/avolkov/whitepaper-library/internal/infrastructure/resilience"
)

func (c *Client) postJSON(ctx context.Context, path, apiKey string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newHTTPStatusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	return nil
}

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func newHTTPStatusError(resp *http.Response) *HTTPStatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &HTTPStatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(raw)),
	}
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "chat completion status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("chat completion status: %s", e.Status)
	}
	return fmt.Sprintf("chat completion status: %s: %s", e.Status, e.Body)
}

// classifyTransportError keeps caller mistakes (bad API key, malformed
// request) and cancellations from tripping the breaker.
func classifyTransportError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		recordable := statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode == http.StatusRequestTimeout
		return resilience.ErrorClassification{RecordFailure: recordable}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{RecordFailure: true}
	}

	return resilience.ErrorClassification{RecordFailure: true}
}
