package mediapolicy

import (
	"viidemo/internal/manifest"
)

// Key names a video slot in a variant.
type Key string

const (
	KeyBaseline Key = "baseline"
	KeyOurs     Key = "ours"
	KeyOursMask Key = "ours-masked"
)

// CategorySexual never offers original viewing.
const CategorySexual = "sex"

// Preview is the outcome of a preview selection.
type Preview struct {
	Key     Key
	URL     string
	Refusal bool
}

// Original describes whether the unmasked candidate may be viewed on request.
type Original struct {
	URL     string
	Allowed bool
	Note    string
}

// PreviewKey returns the candidate slot shown for a category.
func PreviewKey(categoryID string) Key {
	if manifest.NormalizeCategory(categoryID) == manifest.CategoryIllegal {
		return KeyOurs
	}
	return KeyOursMask
}

// SelectPreview picks the candidate preview for a variant.
func SelectPreview(categoryID string, v manifest.Variant) Preview {
	key := PreviewKey(categoryID)
	return newPreview(key, urlFor(key, v.Videos))
}

// SelectBaseline picks the baseline preview. It never depends on category.
func SelectBaseline(v manifest.Variant) Preview {
	return newPreview(KeyBaseline, v.Videos.Baseline)
}

// OriginalFor reports the original (unmasked) candidate for the confirm-gated
// viewing mode.
func OriginalFor(categoryID string, v manifest.Variant) Original {
	if manifest.NormalizeCategory(categoryID) == CategorySexual {
		return Original{Note: "Original (unmasked) viewing is disabled for Sexual Content demos."}
	}
	if v.Videos.Ours == "" {
		return Original{}
	}
	return Original{URL: v.Videos.Ours, Allowed: true}
}

func newPreview(key Key, url string) Preview {
	if url == "" {
		return Preview{Key: key, Refusal: true}
	}
	return Preview{Key: key, URL: url}
}

func urlFor(key Key, videos manifest.Videos) string {
	switch key {
	case KeyBaseline:
		return videos.Baseline
	case KeyOurs:
		return videos.Ours
	case KeyOursMask:
		return videos.OursMask
	default:
		return ""
	}
}
