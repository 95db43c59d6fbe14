package view_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"viidemo/internal/manifest"
	"viidemo/internal/mediapolicy"
	"viidemo/internal/view"
)

func fullSample() manifest.Sample {
	return manifest.Sample{
		Images:             manifest.Images{Input: "img/in.png", Attack: "img/atk.png"},
		BaselinePromptPath: "prompts/p.txt",
		Variants: []manifest.Variant{
			{LLMDisplay: "GPT-4o", Videos: manifest.Videos{Baseline: "v/base.mp4", Ours: "v/ours.mp4", OursMask: "v/mask.mp4"}},
		},
	}
}

func TestRenderProducesSixOrderedCells(t *testing.T) {
	sample := fullSample()
	row := view.Render(sample, sample.Variants[0], "draw a cat", "vio", view.Options{})

	want := [view.CellCount]view.CellKind{
		view.CellImage, view.CellPrompt, view.CellVideo,
		view.CellImage, view.CellPrompt, view.CellVideo,
	}
	if diff := cmp.Diff(want, row.Kinds()); diff != "" {
		t.Fatalf("cell kinds mismatch (-want +got):\n%s", diff)
	}
	if row.Cells[view.ColInputImage].URL != "img/in.png" || row.Cells[view.ColAttackImage].URL != "img/atk.png" {
		t.Fatalf("unexpected image cells: %+v / %+v", row.Cells[view.ColInputImage], row.Cells[view.ColAttackImage])
	}
	if row.Cells[view.ColBaselinePrompt].Text != "draw a cat" || row.Cells[view.ColBaselinePrompt].Hint != "" {
		t.Fatalf("unexpected prompt cell: %+v", row.Cells[view.ColBaselinePrompt])
	}
	if row.Cells[view.ColCandidatePrompt].Text != view.CandidatePrompt {
		t.Fatalf("unexpected candidate prompt: %q", row.Cells[view.ColCandidatePrompt].Text)
	}
	baseline := row.Cells[view.ColBaselineVideo]
	if baseline.URL != "v/base.mp4" || baseline.Playback != view.PreviewPlayback() {
		t.Fatalf("unexpected baseline cell: %+v", baseline)
	}
	candidate := row.Cells[view.ColCandidateVideo]
	if candidate.URL != "v/mask.mp4" || candidate.Source != mediapolicy.KeyOursMask {
		t.Fatalf("expected masked candidate, got %+v", candidate)
	}
	if candidate.Original != nil {
		t.Fatal("original toggle must be absent unless enabled")
	}
}

func TestRenderEmptyImagesAndPrompt(t *testing.T) {
	sample := manifest.Sample{Variants: []manifest.Variant{{}}}
	row := view.Render(sample, sample.Variants[0], "   ", "hate", view.Options{})

	want := [view.CellCount]view.CellKind{
		view.CellEmpty, view.CellPrompt, view.CellRefusal,
		view.CellEmpty, view.CellPrompt, view.CellRefusal,
	}
	if diff := cmp.Diff(want, row.Kinds()); diff != "" {
		t.Fatalf("cell kinds mismatch (-want +got):\n%s", diff)
	}
	if row.Cells[view.ColBaselinePrompt].Hint != view.EmptyHint {
		t.Fatalf("expected empty hint, got %+v", row.Cells[view.ColBaselinePrompt])
	}
	if row.Cells[view.ColBaselineVideo].AspectRatio != 0 {
		t.Fatalf("expected unset aspect ratio, got %v", row.Cells[view.ColBaselineVideo].AspectRatio)
	}
}

func TestRenderIllicitUsesUnmaskedPreview(t *testing.T) {
	sample := manifest.Sample{Variants: []manifest.Variant{{Videos: manifest.Videos{Ours: "a.mp4"}}}}
	row := view.Render(sample, sample.Variants[0], "", "ill", view.Options{})

	if row.Cells[view.ColBaselineVideo].Kind != view.CellRefusal {
		t.Fatalf("expected baseline refusal, got %+v", row.Cells[view.ColBaselineVideo])
	}
	if got := row.Cells[view.ColCandidateVideo]; got.Kind != view.CellVideo || got.URL != "a.mp4" {
		t.Fatalf("expected unmasked candidate a.mp4, got %+v", got)
	}
}

func TestRenderSexUsesMaskedPreview(t *testing.T) {
	sample := manifest.Sample{Variants: []manifest.Variant{{Videos: manifest.Videos{Ours: "a.mp4", OursMask: "b.mp4"}}}}
	row := view.Render(sample, sample.Variants[0], "", "sex", view.Options{})

	for i, cell := range row.Cells {
		if cell.URL == "a.mp4" {
			t.Fatalf("cell %d exposes the unmasked asset: %+v", i, cell)
		}
	}
	if got := row.Cells[view.ColCandidateVideo]; got.URL != "b.mp4" {
		t.Fatalf("expected masked candidate b.mp4, got %+v", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	sample := fullSample()
	opts := view.Options{Aspects: map[string]float64{"v/mask.mp4": 16.0 / 9.0}, OriginalToggle: true}

	first := view.Render(sample, sample.Variants[0], "prompt", "vio", opts)
	second := view.Render(sample, sample.Variants[0], "prompt", "vio", opts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render not idempotent (-first +second):\n%s", diff)
	}

	// Rendering eagerly with empty text and again once the prompt arrives must
	// match a render that had the prompt from the start.
	_ = view.Render(sample, sample.Variants[0], "", "vio", opts)
	late := view.Render(sample, sample.Variants[0], "prompt", "vio", opts)
	if diff := cmp.Diff(first, late); diff != "" {
		t.Fatalf("late render differs (-first +late):\n%s", diff)
	}
}

func TestRenderRefusalBorrowsSiblingAspect(t *testing.T) {
	sample := manifest.Sample{Variants: []manifest.Variant{{Videos: manifest.Videos{OursMask: "m.mp4"}}}}
	row := view.Render(sample, sample.Variants[0], "", "vio", view.Options{Aspects: map[string]float64{"m.mp4": 0.5625}})
	if got := row.Cells[view.ColBaselineVideo].AspectRatio; got != 0.5625 {
		t.Fatalf("expected borrowed aspect 0.5625, got %v", got)
	}

	invalid := view.Render(sample, sample.Variants[0], "", "vio", view.Options{Aspects: map[string]float64{"m.mp4": math.Inf(1)}})
	if got := invalid.Cells[view.ColBaselineVideo].AspectRatio; got != 0 {
		t.Fatalf("expected invalid aspect to stay unset, got %v", got)
	}
}

func TestRenderOriginalToggle(t *testing.T) {
	sample := fullSample()
	row := view.Render(sample, sample.Variants[0], "", "vio", view.Options{OriginalToggle: true})
	want := &view.OriginalToggle{URL: "v/ours.mp4", Allowed: true}
	if diff := cmp.Diff(want, row.Cells[view.ColCandidateVideo].Original); diff != "" {
		t.Fatalf("original toggle mismatch (-want +got):\n%s", diff)
	}

	blocked := view.Render(sample, sample.Variants[0], "", "sex", view.Options{OriginalToggle: true})
	if got := blocked.Cells[view.ColCandidateVideo].Original; got == nil || got.Allowed || got.Note == "" {
		t.Fatalf("expected blocked original with note, got %+v", got)
	}
}
