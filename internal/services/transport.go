package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/spdl/internal/shared"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response is kept for the error message.
const maxErrorBody = 512

// Transport is the minimal set of HTTP operations the services need.
type Transport interface {
	// GetJSON performs a GET and decodes the JSON body into result.
	GetJSON(ctx context.Context, url string, header http.Header, result any) error

	// PostJSON encodes body as JSON, POSTs it, and decodes the JSON response into result.
	PostJSON(ctx context.Context, url string, header http.Header, body, result any) error

	// GetStream performs a GET and returns the open response body. Callers close it.
	GetStream(ctx context.Context, url string) (io.ReadCloser, error)
}

// TransportOpts configures an [HTTPTransport].
type TransportOpts struct {
	UserAgent         string
	RequestsPerSecond float64 // 0 disables throttling
}

// HTTPTransport implements [Transport] on top of an [http.Client].
type HTTPTransport struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewHTTPTransport creates a transport for the given client, which defaults to [http.DefaultClient].
// No timeout is added to the client.
func NewHTTPTransport(client *http.Client, opts TransportOpts) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &HTTPTransport{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
	}
}

// Client returns the underlying [http.Client].
func (t *HTTPTransport) Client() *http.Client {
	return t.client
}

func (t *HTTPTransport) GetJSON(ctx context.Context, url string, header http.Header, result any) error {
	resp, err := t.do(ctx, http.MethodGet, url, header, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, result)
}

func (t *HTTPTransport) PostJSON(ctx context.Context, url string, header http.Header, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")

	resp, err := t.do(ctx, http.MethodPost, url, h, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, result)
}

func (t *HTTPTransport) GetStream(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := t.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// do sends the request and returns the response only when the status is 2xx.
func (t *HTTPTransport) do(ctx context.Context, method, url string, header http.Header, body io.Reader) (*http.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(bytes.TrimSpace(snippet)) > 0 {
			return nil, fmt.Errorf("%w: %s %s: status %d: %s", shared.ErrAPIRequest, method, url, resp.StatusCode, bytes.TrimSpace(snippet))
		}
		return nil, fmt.Errorf("%w: %s %s: status %d", shared.ErrAPIRequest, method, url, resp.StatusCode)
	}

	return resp, nil
}

func decodeBody(r io.Reader, result any) error {
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(r).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}
