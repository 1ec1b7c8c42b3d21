package fs

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/gobwas/glob"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileScanner = (*Scanner)(nil)

// Scanner finds the newest tracked input for staleness checks.
type Scanner struct {
	walker  *Walker
	ignores []glob.Glob
}

// NewScanner creates a Scanner that leaves paths matching any of ignores out
// of NewestModTime.
func NewScanner(walker *Walker, ignores []string) (*Scanner, error) {
	compiled, err := CompileIgnores(ignores)
	if err != nil {
		return nil, err
	}
	return &Scanner{walker: walker, ignores: compiled}, nil
}

// NewestModTime returns the latest modification time of any file or
// directory below paths. Directories count so that a deleted file still
// advances the result. Missing paths are ignored.
func (s *Scanner) NewestModTime(paths ...string) (time.Time, error) {
	var newest time.Time
	for _, root := range paths {
		if _, err := os.Lstat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", root)
		}
		for entry, err := range s.walker.Walk(root, s.ignores) {
			if err != nil {
				return time.Time{}, err
			}
			if t := entry.Info.ModTime(); t.After(newest) {
				newest = t
			}
		}
	}
	return newest, nil
}

// ModTime returns the modification time of path and whether it exists.
// Symlinks are not followed.
func (s *Scanner) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return info.ModTime(), true, nil
}
