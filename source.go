package vacmap

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxStateBytes limits a state payload to 8 MB. Inline base64 maps are the
// only reason payloads grow; anything past this is a broken endpoint.
const maxStateBytes = 8 << 20

// Source produces raw state payloads for the ingestion loop. Fetch blocks
// until one payload is available (an HTTP response, the next pushed
// message) or the context is done. Implementations recover nothing
// themselves: every failure is returned so the loop can surface it and
// keep its cadence.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Close() error
}

// HTTPSource polls a state endpoint with GET requests.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a Source that GETs the given URL on every fetch.
// A nil client uses http.DefaultClient; no request timeout is imposed, so a
// hanging endpoint delays only the next cycle.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

// Fetch performs one GET and returns the response body. Any non-2xx status
// is a transport failure.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch state: %s returned %s", s.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStateBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch state: read body: %w", err)
	}
	return body, nil
}

// Close is a no-op; HTTP connections are pooled by the client.
func (s *HTTPSource) Close() error { return nil }
