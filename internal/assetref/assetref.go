package assetref

import (
	"net/url"
	"path/filepath"
	"strings"
)

// IsRemote reports whether ref is an absolute http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Resolve joins ref onto base. Absolute URLs and absolute paths are returned
// unchanged; relative references follow URL resolution for remote bases and
// filepath joining for directory bases.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || IsRemote(ref) || strings.HasPrefix(ref, "file://") {
		return ref
	}
	base = strings.TrimSpace(base)
	if IsRemote(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return ref
		}
		refURL, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return baseURL.ResolveReference(refURL).String()
	}
	path, query := splitQuery(ref)
	if filepath.IsAbs(path) || base == "" {
		return ref
	}
	return joinQuery(filepath.Join(base, filepath.FromSlash(path)), query)
}

// LocalPath maps a resolved reference to a file on disk. Remote URLs report
// false; file:// URLs and plain paths have any query string stripped.
func LocalPath(resolved string) (string, bool) {
	resolved = strings.TrimSpace(resolved)
	if resolved == "" || IsRemote(resolved) {
		return "", false
	}
	if strings.HasPrefix(resolved, "file://") {
		parsed, err := url.Parse(resolved)
		if err != nil || parsed.Path == "" {
			return "", false
		}
		return filepath.FromSlash(parsed.Path), true
	}
	path, _ := splitQuery(resolved)
	return path, path != ""
}

// WithQueryParam appends key=value to ref, using & when ref already carries
// a query string.
func WithQueryParam(ref, key, value string) string {
	if ref == "" {
		return ref
	}
	sep := "?"
	if strings.Contains(ref, "?") {
		sep = "&"
	}
	return ref + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func splitQuery(ref string) (string, string) {
	if idx := strings.IndexByte(ref, '?'); idx >= 0 {
		return ref[:idx], ref[idx+1:]
	}
	return ref, ""
}

func joinQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
