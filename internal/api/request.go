package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rickgao/xiv-marketboard/internal/version"
)

// APIError represents an HTTP error status from the API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NetworkError is a transport failure (timeout, reset, truncated body).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable always returns true; transport failures are transient.
func (e *NetworkError) IsRetryable() bool { return true }

// FetchError is returned once a request has exhausted its retry budget.
type FetchError struct {
	Endpoint string
	Path     string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: max retries exceeded after %d attempts: %v", e.Endpoint, e.Path, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ResponseShapeError means the response did not match the expected schema.
type ResponseShapeError struct {
	Endpoint string
	Detail   string
	Err      error
}

func (e *ResponseShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response shape: %s: %v", e.Endpoint, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response shape: %s", e.Endpoint, e.Detail)
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }

func shapeError(endpoint, format string, args ...any) *ResponseShapeError {
	return &ResponseShapeError{Endpoint: endpoint, Detail: fmt.Sprintf(format, args...)}
}

type retryable interface {
	IsRetryable() bool
}

// isTransient reports whether err may succeed on a later attempt.
func isTransient(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return false
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	if c.apiKey != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("private_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.sem.Release(1)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: redactKey(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// redactKey hides the private_key query value that *url.Error embeds in its message.
func redactKey(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return &url.Error{Op: ue.Op, URL: "[unparseable url]", Err: ue.Err}
	}
	q := u.Query()
	if !q.Has("private_key") {
		return err
	}
	q.Set("private_key", "REDACTED")
	u.RawQuery = q.Encode()
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, endpoint, method, path string, query url.Values) ([]byte, error) {
	var lastErr error
	attempts := c.retry.attempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.retry.Delay(attempt - 1)
			c.logger.Debug("retrying request",
				"endpoint", endpoint,
				"attempt", attempt,
				"backoff", delay,
				"path", path,
				"err", lastErr,
			)
			c.metrics.IncRetry(endpoint)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.clock.After(delay):
			}
		}

		start := time.Now()
		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			c.metrics.ObserveRequest(endpoint, "ok", time.Since(start))
			return body, nil
		}
		c.metrics.ObserveRequest(endpoint, "error", time.Since(start))

		// A cancelled caller is not a transient failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		if !isTransient(err) {
			return nil, err
		}
	}

	return nil, &FetchError{Endpoint: endpoint, Path: path, Attempts: attempts, Err: lastErr}
}

// get performs a GET request with retries and decodes the JSON body.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, endpoint, http.MethodGet, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ResponseShapeError{Endpoint: endpoint, Detail: "decode json", Err: err}
	}

	return nil
}
