package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// ErrBadStatus reports a non-success response from an HTTP source.
var ErrBadStatus = errors.New("corpus: unexpected response status")

// Source yields the document collection from one origin. FetchAll must
// return an error rather than a partial collection, so a failed fetch
// never half-populates the index.
type Source interface {
	// Name identifies the source in logs and health output.
	Name() string
	FetchAll(ctx context.Context) ([]Document, error)
}

// Searcher is implemented by sources that have their own search backend.
// The committed-query results are delegated to it unmodified; sources
// without one fall back to Snapshot.Search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Document, error)
}

// HTTPSource fetches documents from a ScholarSearch-compatible backend
// over its /api/all and /api/search endpoints.
type HTTPSource struct {
	base   string
	client *retryablehttp.Client
}

// NewHTTPSource builds a source against base, e.g. "http://localhost:8000".
// Transient failures are retried with backoff before the source counts
// as unavailable.
func NewHTTPSource(base string, timeout time.Duration) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return &HTTPSource{base: strings.TrimRight(base, "/"), client: client}
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return "http:" + s.base
}

// FetchAll implements Source.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]Document, error) {
	return s.get(ctx, "/api/all")
}

// Search implements Searcher by passing the query through to the
// backend's search endpoint, preserving its ordering.
func (s *HTTPSource) Search(ctx context.Context, query string) ([]Document, error) {
	return s.get(ctx, "/api/search?q="+url.QueryEscape(query))
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]Document, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", s.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrBadStatus, resp.Status, s.base+path)
	}
	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// FileSource reads a local JSON snapshot of the collection, the same
// array shape the HTTP endpoints serve.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// FetchAll implements Source.
func (s *FileSource) FetchAll(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	return docs, nil
}
