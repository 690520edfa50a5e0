// Package httpstore provides a read-only blobstore.Reader over HTTP(S).
//
// Blob names are absolute URLs, or paths resolved against a base URL.
// Requests are rate limited to stay polite towards public morphology
// repositories.
package httpstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/SridharJagannathan/navis/blobstore"
)

// Store fetches blobs over HTTP. Implements blobstore.Reader.
type Store struct {
	client  *http.Client
	base    string
	limiter *rate.Limiter
}

// Option configures a Store.
type Option func(*Store)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(s *Store) { s.client = c }
}

// WithBaseURL resolves relative blob names against the given base URL.
func WithBaseURL(base string) Option {
	return func(s *Store) { s.base = strings.TrimSuffix(base, "/") }
}

// WithRateLimit caps requests per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Store) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// New creates an HTTP store. By default requests are capped at 10/s.
func New(opts ...Option) *Store {
	s := &Store{
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsURL reports whether s parses as an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Store) resolve(name string) string {
	if IsURL(name) || s.base == "" {
		return name
	}
	return s.base + "/" + strings.TrimPrefix(name, "/")
}

// Open fetches a blob. The caller must close the returned body.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.resolve(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, blobstore.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("httpstore: GET %s: %s", s.resolve(name), resp.Status)
	}
	return resp.Body, nil
}

// List is not supported over plain HTTP.
func (s *Store) List(context.Context, string) ([]string, error) {
	return nil, errors.ErrUnsupported
}
