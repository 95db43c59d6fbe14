// Package view renders one sample variant into a fixed six-cell row and
// models the interactive state of the video tiles inside it.
//
// Render is a pure function of its inputs, so re-rendering after a variant
// switch or a late prompt arrival is a full rebuild rather than a diff. UI
// events reach tiles as explicit intents; the lightbox chrome sits behind the
// Lightbox interface.
package view
