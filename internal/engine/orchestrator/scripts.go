package orchestrator

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// Script is a customization script found under build.d.
type Script struct {
	// Path is slash-separated and relative to build.d.
	Path string
	// User is the identity the script runs as; empty means root.
	User string
}

// DiscoverScripts lists the scripts in fsys in lexical order of their paths.
// A file at the top level runs as root; a file below a subdirectory runs as
// the user named by that subdirectory. Entries whose name starts with "."
// are skipped. A missing directory yields no scripts.
func DiscoverScripts(fsys fs.FS) ([]Script, error) {
	var scripts []Script
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if p == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		s := Script{Path: p}
		if dir, _, found := strings.Cut(p, "/"); found {
			s.User = dir
		}
		scripts = append(scripts, s)
		return nil
	})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrScriptDiscoveryFailed.Error())
	}

	slices.SortFunc(scripts, func(a, b Script) int { return strings.Compare(a.Path, b.Path) })
	return scripts, nil
}

// ContainerPath is where the script is visible inside the container.
func (s Script) ContainerPath() string {
	return path.Join(domain.ScriptsMountPoint, s.Path)
}
