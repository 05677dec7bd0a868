package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mr1hm/iss-tracker/internal/observability"
)

// maxFeedSize bounds how much of the upstream body is read. The NASA feed is
// a few megabytes.
const maxFeedSize = 64 << 20

// FetchError reports a failure to retrieve the upstream feed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetching ephemeris: %v", e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Source yields the raw ephemeris XML.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource performs a single GET against a fixed URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	ctx, span := observability.StartSpan(ctx, "ephemeris.fetch", attribute.String("http.url", s.url))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("error creating request: %w", err)}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("error doing request: %w", err)}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: s.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		span.RecordError(err)
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("error reading resp.Body: %w", err)}
	}
	span.SetAttributes(attribute.Int("ephemeris.bytes", len(body)))

	return body, nil
}
