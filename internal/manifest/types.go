package manifest

import "strings"

// CategoryIllegal is the one category whose candidate previews show the
// unmasked output.
const CategoryIllegal = "ill"

// Manifest is the top-level demo document.
type Manifest struct {
	Notice string  `json:"notice"`
	Groups []Group `json:"groups"`
}

// Group collects the samples of one content category.
type Group struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Disclaimer string   `json:"disclaimer"`
	Samples    []Sample `json:"samples"`
}

// Sample is one demo row. Images and the baseline prompt are shared by all
// variants; only videos and the model label differ per variant.
type Sample struct {
	Images             Images    `json:"images"`
	BaselinePromptPath string    `json:"baseline_prompt_path"`
	Variants           []Variant `json:"variants"`
}

// Images holds the sample-level image URLs.
type Images struct {
	Input  string `json:"input"`
	Attack string `json:"attack"`
}

// Variant is one labeled run of a sample.
type Variant struct {
	LLMDisplay string `json:"llm_display"`
	Videos     Videos `json:"videos"`
}

// Videos holds the per-variant video URLs. Any of them may be absent.
type Videos struct {
	Baseline string `json:"baseline"`
	Ours     string `json:"ours"`
	OursMask string `json:"oursmask"`
}

// CategoryID returns the normalized category key used by media policy.
func (g Group) CategoryID() string {
	return NormalizeCategory(g.ID)
}

// DisplayTitle returns the group heading, falling back to "Demos".
func (g Group) DisplayTitle() string {
	if title := strings.TrimSpace(g.Title); title != "" {
		return title
	}
	return "Demos"
}

// DisclaimerFor returns the group disclaimer, else the manifest notice.
func (m *Manifest) DisclaimerFor(g Group) string {
	if d := strings.TrimSpace(g.Disclaimer); d != "" {
		return d
	}
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m.Notice)
}

// Label returns the selector label for the variant.
func (v Variant) Label() string {
	if label := strings.TrimSpace(v.LLMDisplay); label != "" {
		return label
	}
	return "Default"
}

// HasLabel reports whether the variant carries an explicit model label.
func (v Variant) HasLabel() bool {
	return strings.TrimSpace(v.LLMDisplay) != ""
}

// NormalizeCategory lower-cases and trims a category key.
func NormalizeCategory(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
