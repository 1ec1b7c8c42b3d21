package ports

import "time"

// Hasher computes content fingerprints of local files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the content hash of the file at path.
	HashFile(path string) (string, error)

	// HashBytes returns the hash HashFile would report for a file holding data.
	HashBytes(data []byte) string
}

// FileScanner inspects local inputs for staleness checks.
type FileScanner interface {
	// NewestModTime returns the latest modification time of any tracked file
	// below the given paths. Missing paths are ignored.
	NewestModTime(paths ...string) (time.Time, error)

	// ModTime returns the modification time of path and whether it exists.
	ModTime(path string) (time.Time, bool, error)
}
