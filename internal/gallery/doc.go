// Package gallery turns a loaded manifest into the card tree of the demo page.
//
// Builder.Build lays out every group and card synchronously with empty prompt
// text, then schedules the background work (prompt fetches, aspect probes)
// that refines individual cards as results arrive. A card always re-renders
// the variant that is selected when a result lands, so a prompt that resolves
// after the viewer switched models still shows under the new model.
//
// Container.Wait lets non-interactive callers (the static build and the
// preview server) block until that background work has settled.
package gallery
