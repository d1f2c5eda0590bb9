// Package discover walks a project tree and yields the image files a scan
// should inspect.
package discover

import (
	"cmp"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"assetpipe/internal/config"
)

// Image references one candidate file. Identity is the path.
type Image struct {
	Path   string
	Format string
}

// Options control which entries the walk yields.
type Options struct {
	Extensions   []string
	ExcludeDirs  []string
	BackupSuffix string
}

// OptionsFromConfig builds walk options from the scan section.
func OptionsFromConfig(scan config.Scan) Options {
	return Options{
		Extensions:   scan.ImageExtensions,
		ExcludeDirs:  scan.ExcludeDirs,
		BackupSuffix: scan.BackupSuffix,
	}
}

// FormatForExtension maps a file extension to the format tag used by the
// stripper. Unknown extensions return the bare lowercase extension.
func FormatForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpg", "jpeg":
		return "jpeg"
	default:
		return ext
	}
}

type matcher struct {
	extensions map[string]struct{}
	excluded   map[string]struct{}
	backup     string
}

func newMatcher(opts Options) matcher {
	m := matcher{
		extensions: make(map[string]struct{}, len(opts.Extensions)),
		excluded:   make(map[string]struct{}, len(opts.ExcludeDirs)),
		backup:     strings.ToLower(opts.BackupSuffix),
	}
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.extensions[ext] = struct{}{}
	}
	for _, dir := range opts.ExcludeDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			m.excluded[dir] = struct{}{}
		}
	}
	return m
}

// excludedDir reports whether any segment of rel is an exclusion token.
func (m matcher) excludedDir(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := m.excluded[segment]; ok {
			return true
		}
	}
	return false
}

func (m matcher) isBackup(name string) bool {
	if m.backup == "" {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, m.backup) {
		return true
	}
	// Secondary extension form, e.g. hero.bk.png.
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))
	return strings.HasSuffix(stem, m.backup)
}

func (m matcher) accept(name string) (string, bool) {
	if m.isBackup(name) {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := m.extensions[ext]; !ok {
		return "", false
	}
	return FormatForExtension(ext), true
}

// Walk lazily yields image files under root. Errors on individual entries are
// yielded and the walk continues; stopping iteration ends the walk.
func Walk(root string, opts Options) iter.Seq2[Image, error] {
	m := newMatcher(opts)
	return func(yield func(Image, error) bool) {
		stopped := false
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if stopped {
				return fs.SkipAll
			}
			if err != nil {
				if !yield(Image{Path: path}, err) {
					stopped = true
					return fs.SkipAll
				}
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if m.excludedDir(rel) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			format, ok := m.accept(d.Name())
			if !ok {
				return nil
			}
			if !yield(Image{Path: path, Format: format}, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Collect drains Walk and returns the images sorted by path alongside any
// entry errors encountered.
func Collect(root string, opts Options) ([]Image, []error) {
	var (
		images []Image
		errs   []error
	)
	for img, err := range Walk(root, opts) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		images = append(images, img)
	}
	slices.SortFunc(images, func(a, b Image) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return images, errs
}
