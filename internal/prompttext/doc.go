// Package prompttext lazily resolves the plain-text prompt files referenced by
// manifest samples.
//
// A Resolver memoizes lookups by fully resolved, cache-busted URL and
// collapses concurrent requests for the same key into one fetch. Prompts are
// supplementary, so every failure resolves to the empty string.
package prompttext
