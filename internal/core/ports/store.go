package ports

import "go.trai.ch/genpack/internal/core/domain"

// StateStore persists fingerprint records, layer state and owned-file manifests.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// ReadFingerprint returns the record at path, or the zero fingerprint if none exists.
	ReadFingerprint(path string) (domain.Fingerprint, error)

	// WriteFingerprint replaces the record at path.
	WriteFingerprint(path string, fp domain.Fingerprint) error

	// LoadLayerState returns the state at path, or the zero state if none exists.
	LoadLayerState(path string) (domain.LayerState, error)

	// SaveLayerState replaces the state at path.
	SaveLayerState(path string, state domain.LayerState) error

	// ReadManifest returns the manifest at path and whether it exists.
	ReadManifest(path string) (domain.OwnedFileManifest, bool, error)

	// WriteManifest replaces the manifest at path.
	WriteManifest(path string, manifest domain.OwnedFileManifest) error

	// RemoveManifest deletes the manifest at path, if present.
	RemoveManifest(path string) error
}
