package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"viidemo/internal/assetref"
	"viidemo/internal/fileutil"
)

// ErrLocked is returned when another build holds the output directory.
var ErrLocked = errors.New("output directory is locked by another build")

// IndexName is the file name of the generated page.
const IndexName = "index.html"

// AssetDir is the subdirectory receiving gallery.css and gallery.js.
const AssetDir = "assets"

// WriteOptions controls what Write copies next to the page.
type WriteOptions struct {
	// BundleMedia copies local media referenced by the page from SourceRoot
	// into the output directory, keeping relative paths.
	BundleMedia bool
	SourceRoot  string
}

// WriteResult summarizes a build.
type WriteResult struct {
	Index   string
	Assets  int
	Media   int
	Missing []string
}

// Write renders page into dir as index.html plus assets/. The directory is
// locked for the duration so concurrent builds fail fast with ErrLocked.
func (r *Renderer) Write(dir string, page Page, opts WriteOptions) (WriteResult, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("create output parent: %w", err)
	}
	lock := flock.New(dir + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return WriteResult{}, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return WriteResult{}, ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var html strings.Builder
	if err := r.RenderPage(&html, page); err != nil {
		return WriteResult{}, err
	}
	result := WriteResult{Index: filepath.Join(dir, IndexName)}
	if err := fileutil.WriteFileAtomic(result.Index, []byte(html.String()), 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("write index: %w", err)
	}

	assets := Assets()
	err = fs.WalkDir(assets, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(assets, name)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFileAtomic(filepath.Join(dir, AssetDir, filepath.FromSlash(name)), data, 0o644); err != nil {
			return err
		}
		result.Assets++
		return nil
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("write assets: %w", err)
	}

	if opts.BundleMedia {
		if err := bundleMedia(dir, opts.SourceRoot, page.MediaRefs(), &result); err != nil {
			return WriteResult{}, err
		}
	}
	return result, nil
}

// bundleMedia copies local relative references. Missing files are recorded,
// not fatal: the page already shows whatever the browser can load.
func bundleMedia(dir, sourceRoot string, refs []string, result *WriteResult) error {
	for _, ref := range refs {
		rel, ok := bundlePath(ref)
		if !ok {
			continue
		}
		src := filepath.Join(sourceRoot, rel)
		dst := filepath.Join(dir, rel)
		if fileutil.SameContent(src, dst) {
			result.Media++
			continue
		}
		if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
			result.Missing = append(result.Missing, ref)
			continue
		}
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return fmt.Errorf("bundle %s: %w", ref, err)
		}
		result.Media++
	}
	return nil
}

// bundlePath maps a page reference to a relative file path, rejecting remote
// URLs, absolute paths and paths escaping the root.
func bundlePath(ref string) (string, bool) {
	if assetref.IsRemote(ref) || strings.HasPrefix(ref, "file://") {
		return "", false
	}
	local, ok := assetref.LocalPath(ref)
	if !ok {
		return "", false
	}
	clean := path.Clean(filepath.ToSlash(local))
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return filepath.FromSlash(clean), true
}
