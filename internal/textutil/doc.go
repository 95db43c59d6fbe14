// Package textutil normalizes free-form manifest identifiers into tokens that
// are safe to embed in element IDs, URL path segments, and file names.
package textutil
