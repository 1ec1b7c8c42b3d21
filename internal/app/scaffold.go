package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

const gitignore = "work/\n*.squashfs\n.vscode/\n"

const vscodeSettings = `{
  "files.exclude": {"work/": true, "*.squashfs": true},
  "search.exclude": {"work/": true, "*.squashfs": true},
  "python.analysis.exclude": ["work/"]
}
`

// EnsureProjectFiles writes .gitignore and .vscode/settings.json into root
// when they are missing. Existing files are never touched.
func EnsureProjectFiles(root string, logger ports.Logger) error {
	files := []struct {
		rel     string
		content string
	}{
		{".gitignore", gitignore},
		{filepath.Join(".vscode", "settings.json"), vscodeSettings},
	}

	for _, f := range files {
		path := filepath.Join(root, f.rel)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrScaffoldFailed.Error()), "path", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrScaffoldFailed.Error()), "path", path)
		}
		if err := os.WriteFile(path, []byte(f.content), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrScaffoldFailed.Error()), "path", path)
		}
		logger.Info("created " + f.rel)
	}
	return nil
}
