package prompttext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"viidemo/internal/assetref"
	"viidemo/internal/logging"
)

const maxPromptBytes = 1 << 20

// Resolver fetches and memoizes prompt text.
type Resolver struct {
	client  *http.Client
	base    string
	bust    string
	timeout time.Duration
	trace   logging.Tracer

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for remote prompts.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTimeout bounds each fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) { r.timeout = timeout }
}

// WithTracer routes fetch failures to the verbose trace.
func WithTracer(trace logging.Tracer) Option {
	return func(r *Resolver) { r.trace = trace }
}

// WithStartTime overrides the session start time the cache-bust token is
// derived from. It defaults to the Resolver's creation time.
func WithStartTime(start time.Time) Option {
	return func(r *Resolver) { r.bust = CacheBustToken(start) }
}

// NewResolver builds a Resolver that resolves relative references against base.
func NewResolver(base string, opts ...Option) *Resolver {
	r := &Resolver{
		client: http.DefaultClient,
		base:   base,
		bust:   CacheBustToken(time.Now()),
		cache:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CacheBustToken renders start as base36 milliseconds.
func CacheBustToken(start time.Time) string {
	return strconv.FormatInt(start.UnixMilli(), 36)
}

// Key returns the cache key for ref: the resolved reference with the
// cache-bust parameter appended. Empty refs have an empty key.
func (r *Resolver) Key(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	return assetref.WithQueryParam(assetref.Resolve(r.base, ref), "v", r.bust)
}

// Resolve returns the trimmed text at ref, or "" when ref is empty or the
// fetch fails. Repeated calls for the same ref share one fetch.
func (r *Resolver) Resolve(ctx context.Context, ref string) string {
	key := r.Key(ref)
	if key == "" {
		return ""
	}

	r.mu.RLock()
	text, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return text
	}

	value, _, _ := r.group.Do(key, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		text, err := r.fetch(ctx, key)
		if err != nil {
			r.trace.Log("prompt fetch failed", logging.String("url", key), logging.Error(err))
			text = ""
		}

		r.mu.Lock()
		if existing, ok := r.cache[key]; ok {
			text = existing
		} else {
			r.cache[key] = text
		}
		r.mu.Unlock()
		return text, nil
	})
	return value.(string)
}

func (r *Resolver) fetch(ctx context.Context, key string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var (
		data []byte
		err  error
	)
	if assetref.IsRemote(key) {
		data, err = r.fetchRemote(ctx, key)
	} else {
		data, err = readLocal(key)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Resolver) fetchRemote(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPromptBytes))
}

func readLocal(key string) ([]byte, error) {
	path, ok := assetref.LocalPath(key)
	if !ok {
		return nil, fmt.Errorf("unsupported prompt location %q", key)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxPromptBytes))
}
