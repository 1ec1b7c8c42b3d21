// Package config loads the build manifest and the tool settings.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

const mixinField = "mixin"

// Loader implements ports.ManifestLoader for genpack.json5 and genpack.json.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverRoot walks up from cwd and returns the directory holding the manifest.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	path, err := l.findManifest(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// Load finds the manifest walking up from cwd and returns the parsed project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	path, err := l.findManifest(cwd)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is discovered from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	origin := filepath.Base(path)
	fields, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	mixins, err := mixinLocators(fields, origin)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Root:         filepath.Dir(path),
		ManifestPath: path,
		Base:         domain.Fragment{Origin: origin, Fields: fields},
		Mixins:       mixins,
	}, nil
}

// ParseManifest decodes relaxed JSON: comments and trailing commas are
// accepted. The document must be an object.
func ParseManifest(data []byte) (domain.ConfigValue, error) {
	v, err := domain.DecodeConfigValue(jsonc.ToJSON(data))
	if err != nil {
		return domain.ConfigValue{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	if v.Kind() != domain.KindMap {
		return domain.ConfigValue{}, zerr.With(domain.ErrConfigParseFailed, "reason", "top level must be an object")
	}
	return v, nil
}

func (l *Loader) findManifest(cwd string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	for {
		var found []string
		for _, name := range domain.ManifestFileNames() {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				found = append(found, candidate)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", candidate)
			}
		}
		if len(found) > 1 && l.Logger != nil {
			l.Logger.Warn("both " + domain.ManifestFileName + " and " + domain.LegacyManifestFileName +
				" found in " + dir + ", using " + domain.ManifestFileName)
		}
		if len(found) > 0 {
			return found[0], nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// mixinLocators reads the top-level mixin field: a string, a list of strings or null.
func mixinLocators(fields domain.ConfigValue, origin string) ([]string, error) {
	v, ok := fields.Get(mixinField)
	if !ok || v.IsNull() {
		return nil, nil
	}
	if s, ok := v.AsString(); ok {
		return []string{s}, nil
	}

	shapeErr := &domain.ConfigShapeError{
		Field:    mixinField,
		Path:     origin,
		Expected: "a string or a list of strings",
		Got:      v.Kind().String(),
	}
	if v.Kind() != domain.KindList {
		return nil, shapeErr
	}
	var out []string
	for _, item := range v.Items() {
		s, ok := item.AsString()
		if !ok {
			shapeErr.Field = mixinField + "[]"
			shapeErr.Got = item.Kind().String()
			return nil, shapeErr
		}
		out = append(out, s)
	}
	return out, nil
}
