// Package cas persists the build records of a project: upstream fingerprint
// records, per-variant layer state and owned-file manifests.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.StateStore on plain files. Every write goes to a
// temporary file in the target directory and is renamed into place, so a
// reader never observes a partial record.
type Store struct{}

// NewStore creates a new StateStore.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// ReadFingerprint returns the record at path, or the zero fingerprint if none exists.
func (s *Store) ReadFingerprint(path string) (domain.Fingerprint, error) {
	data, ok, err := readRecord(path)
	if err != nil || !ok {
		return "", err
	}
	return domain.ParseFingerprint(data), nil
}

// WriteFingerprint replaces the record at path.
func (s *Store) WriteFingerprint(path string, fp domain.Fingerprint) error {
	return writeAtomic(path, []byte(fp.String()+"\n"))
}

// LoadLayerState returns the state at path, or the zero state if none exists.
func (s *Store) LoadLayerState(path string) (domain.LayerState, error) {
	data, ok, err := readRecord(path)
	if err != nil || !ok {
		return domain.LayerState{}, err
	}
	var state domain.LayerState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.LayerState{}, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return state, nil
}

// SaveLayerState replaces the state at path.
func (s *Store) SaveLayerState(path string, state domain.LayerState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	return writeAtomic(path, append(data, '\n'))
}

// ReadManifest returns the manifest at path and whether it exists.
func (s *Store) ReadManifest(path string) (domain.OwnedFileManifest, bool, error) {
	data, ok, err := readRecord(path)
	if err != nil || !ok {
		return domain.OwnedFileManifest{}, false, err
	}
	m, err := domain.ParseOwnedFileManifest(data)
	if err != nil {
		return domain.OwnedFileManifest{}, false, zerr.With(err, "path", path)
	}
	return m, true, nil
}

// WriteManifest replaces the manifest at path.
func (s *Store) WriteManifest(path string, m domain.OwnedFileManifest) error {
	return writeAtomic(path, m.Bytes())
}

// RemoveManifest deletes the manifest at path, if present.
func (s *Store) RemoveManifest(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

func readRecord(path string) ([]byte, bool, error) {
	//nolint:gosec // Path is derived from the build context
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	return data, true, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, domain.FilePerm)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
