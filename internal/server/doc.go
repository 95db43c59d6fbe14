// Package server hosts the live preview of the gallery.
//
// Every page load fetches the manifest once, builds a fresh container and
// retains it as a page session, so model switches re-render on the server
// from the same manifest the page was built from. Sessions are bounded and
// the oldest is evicted first. Everything outside the page and fragment
// routes is served from the site root.
package server
