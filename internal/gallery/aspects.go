package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"viidemo/internal/assetref"
	"viidemo/internal/media/ffprobe"
)

// ErrNoAspect is returned when a video has no measurable aspect ratio.
var ErrNoAspect = errors.New("no aspect ratio")

// AspectSource reports the width/height ratio of a video URL.
type AspectSource interface {
	AspectRatio(ctx context.Context, url string) (float64, error)
}

// ProbeAspects measures local videos with ffprobe. Results, including
// failures, are memoized per URL.
type ProbeAspects struct {
	binary  string
	base    string
	timeout time.Duration
	inspect func(ctx context.Context, binary, path string) (ffprobe.Result, error)

	mu    sync.Mutex
	cache map[string]float64
	group singleflight.Group
}

// NewProbeAspects builds an AspectSource resolving relative URLs against base.
func NewProbeAspects(binary, base string, timeout time.Duration) *ProbeAspects {
	return &ProbeAspects{
		binary:  binary,
		base:    base,
		timeout: timeout,
		inspect: ffprobe.Inspect,
		cache:   make(map[string]float64),
	}
}

// AspectRatio probes url once and returns the cached ratio afterwards.
func (p *ProbeAspects) AspectRatio(ctx context.Context, url string) (float64, error) {
	p.mu.Lock()
	ratio, ok := p.cache[url]
	p.mu.Unlock()
	if ok {
		return cachedRatio(url, ratio)
	}

	value, err, _ := p.group.Do(url, func() (any, error) {
		ratio, probeErr := p.probe(ctx, url)
		p.mu.Lock()
		p.cache[url] = ratio
		p.mu.Unlock()
		return ratio, probeErr
	})
	if err != nil {
		return 0, err
	}
	return value.(float64), nil
}

func (p *ProbeAspects) probe(ctx context.Context, url string) (float64, error) {
	path, ok := assetref.LocalPath(assetref.Resolve(p.base, url))
	if !ok {
		return 0, fmt.Errorf("probe %s: remote media is not probed: %w", url, ErrNoAspect)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	result, err := p.inspect(ctx, p.binary, path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", url, err)
	}
	ratio, ok := result.AspectRatio()
	if !ok {
		return 0, fmt.Errorf("probe %s: %w", url, ErrNoAspect)
	}
	return ratio, nil
}

func cachedRatio(url string, ratio float64) (float64, error) {
	if ratio == 0 {
		return 0, fmt.Errorf("probe %s: %w", url, ErrNoAspect)
	}
	return ratio, nil
}
