package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"viidemo/internal/assetref"
)

const maxManifestBytes = 16 << 20

// LoadError reports a failed manifest load: either a non-success HTTP status
// or a read/parse failure.
type LoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load manifest: status %d", e.Status)
	}
	return fmt.Sprintf("load manifest: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches manifests. Relative locations resolve against Base.
type Loader struct {
	Client *http.Client
	Base   string
}

// NewLoader constructs a Loader. A nil client falls back to http.DefaultClient.
func NewLoader(client *http.Client, base string) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{Client: client, Base: base}
}

// Load performs a single uncached fetch of the manifest at location and
// decodes it. There are no retries.
func (l *Loader) Load(ctx context.Context, location string) (*Manifest, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, &LoadError{Err: errors.New("empty manifest location")}
	}
	resolved := assetref.Resolve(l.Base, location)

	var (
		body io.ReadCloser
		err  error
	)
	if assetref.IsRemote(resolved) {
		body, err = l.fetch(ctx, resolved)
	} else {
		body, err = openLocal(resolved)
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var m Manifest
	decoder := json.NewDecoder(io.LimitReader(body, maxManifestBytes))
	if err := decoder.Decode(&m); err != nil {
		return nil, &LoadError{URL: resolved, Err: fmt.Errorf("parse: %w", err)}
	}
	return &m, nil
}

func (l *Loader) fetch(ctx context.Context, resolved string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, &LoadError{URL: resolved, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: resolved, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &LoadError{URL: resolved, Status: resp.StatusCode}
	}
	return resp.Body, nil
}

func openLocal(resolved string) (io.ReadCloser, error) {
	path, ok := assetref.LocalPath(resolved)
	if !ok {
		return nil, &LoadError{URL: resolved, Err: fmt.Errorf("unsupported manifest location %q", resolved)}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{URL: resolved, Err: err}
	}
	return file, nil
}
