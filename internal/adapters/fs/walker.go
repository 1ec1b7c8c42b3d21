// Package fs provides file system adapters for walking, hashing and
// observing modification times of local trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/gobwas/glob"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// CompileIgnores compiles slash-separated glob patterns such as "**/*.swp".
func CompileIgnores(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid ignore pattern"), "pattern", p)
		}
		out = append(out, g)
	}
	return out, nil
}

// Entry is a path yielded by Walk together with its info.
type Entry struct {
	Path string
	Info fs.FileInfo
}

// Walk yields root and every entry below it, skipping .git and anything an
// ignore pattern matches. Patterns are matched against the slash-separated
// path relative to root and against the entry's base name.
func (w *Walker) Walk(root string, ignores []glob.Glob) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Entry{Path: path}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)) {
					return filepath.SkipAll
				}
				return nil
			}

			if path != root && w.skip(root, path, d, ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			info, err := d.Info()
			if err != nil {
				err = zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
			}
			if !yield(Entry{Path: path, Info: info}, err) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(root, path string, d fs.DirEntry, ignores []glob.Glob) bool {
	name := d.Name()
	if d.IsDir() && name == ".git" {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range ignores {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}
