// Package mediapolicy decides which video asset a gallery card previews.
//
// Candidate previews are content-sensitive: only the "ill" category shows the
// unmasked output, every other category shows the masked rendition. A missing
// asset is never an error; it is reported as a refusal so the renderer can
// show a placeholder.
package mediapolicy
