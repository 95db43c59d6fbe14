// Package manifest defines the demo manifest data model and its loader.
//
// A Manifest lists groups (one per content category), each holding samples
// whose variants carry per-model output videos. The loader performs a single
// uncached fetch; any failure is reported as a *LoadError, which is the only
// failure the gallery surfaces to viewers.
package manifest
