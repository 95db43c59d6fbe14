// Package assetref resolves manifest references (prompt files, media, the
// manifest itself) against the site base, which is either an http(s) URL or
// a local directory, and maps resolved references back to local files.
package assetref
