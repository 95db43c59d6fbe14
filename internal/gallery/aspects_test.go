package gallery

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"viidemo/internal/media/ffprobe"
)

func TestProbeAspectsMemoizesByURL(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	var gotPath string
	probe := NewProbeAspects("ffprobe", dir, 0)
	probe.inspect = func(_ context.Context, binary, path string) (ffprobe.Result, error) {
		calls.Add(1)
		gotPath = path
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video", Width: 1920, Height: 1080}}}, nil
	}

	for range 3 {
		ratio, err := probe.AspectRatio(context.Background(), "videos/a.mp4")
		if err != nil {
			t.Fatalf("AspectRatio: %v", err)
		}
		if ratio != 1920.0/1080.0 {
			t.Fatalf("unexpected ratio %v", ratio)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single probe, got %d", calls.Load())
	}
	if want := filepath.Join(dir, "videos", "a.mp4"); gotPath != want {
		t.Fatalf("probe path = %q, want %q", gotPath, want)
	}
}

func TestProbeAspectsSkipsRemoteAndCachesFailures(t *testing.T) {
	var calls atomic.Int32
	probe := NewProbeAspects("ffprobe", "https://cdn.example.com/", 0)
	probe.inspect = func(context.Context, string, string) (ffprobe.Result, error) {
		calls.Add(1)
		return ffprobe.Result{}, nil
	}
	if _, err := probe.AspectRatio(context.Background(), "a.mp4"); !errors.Is(err, ErrNoAspect) {
		t.Fatalf("expected ErrNoAspect for remote media, got %v", err)
	}
	if _, err := probe.AspectRatio(context.Background(), "a.mp4"); !errors.Is(err, ErrNoAspect) {
		t.Fatalf("expected cached failure, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("remote media must not be probed")
	}
}

func TestAspectTargetsPicksRefusalSiblings(t *testing.T) {
	variants := []manifestVariant{
		{baseline: "", ours: "o.mp4", mask: "m.mp4"},
		{baseline: "b.mp4", ours: "", mask: ""},
		{baseline: "b2.mp4", ours: "", mask: "m2.mp4"},
		{baseline: "", ours: "o.mp4", mask: "m.mp4"},
	}
	got := aspectTargets("vio", toVariants(variants))
	want := []string{"m.mp4", "b.mp4"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("aspectTargets = %v, want %v", got, want)
	}
}
