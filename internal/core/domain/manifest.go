package domain

import (
	"bufio"
	"bytes"
	"path"
	"slices"
	"strings"
)

// OwnedFileManifest is the sorted set of paths the lower layer contributes to a
// variant's upper overlay. Every path is relative, slash-separated and normalized.
type OwnedFileManifest struct {
	paths []string
}

// NormalizeRelPath cleans p and rejects anything that is absolute or escapes
// the root through "..". The root itself normalizes to ".".
func NormalizeRelPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", &PathSafetyError{Path: p}
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &PathSafetyError{Path: p}
	}
	return clean, nil
}

// NewOwnedFileManifest normalizes, deduplicates and sorts paths.
// Empty lines and the root entry are dropped.
func NewOwnedFileManifest(paths []string) (OwnedFileManifest, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		clean, err := NormalizeRelPath(p)
		if err != nil {
			return OwnedFileManifest{}, err
		}
		if clean == "." {
			continue
		}
		out = append(out, clean)
	}
	slices.Sort(out)
	return OwnedFileManifest{paths: slices.Compact(out)}, nil
}

// ParseOwnedFileManifest reads a newline-delimited manifest.
func ParseOwnedFileManifest(data []byte) (OwnedFileManifest, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return OwnedFileManifest{}, err
	}
	return NewOwnedFileManifest(lines)
}

// Paths returns the manifest entries in sorted order.
func (m OwnedFileManifest) Paths() []string {
	return slices.Clone(m.paths)
}

// Len returns the number of entries.
func (m OwnedFileManifest) Len() int {
	return len(m.paths)
}

// Contains reports whether p, once normalized, is an entry.
func (m OwnedFileManifest) Contains(p string) bool {
	clean, err := NormalizeRelPath(p)
	if err != nil {
		return false
	}
	_, found := slices.BinarySearch(m.paths, clean)
	return found
}

// Bytes renders the manifest in its persisted newline-delimited form.
func (m OwnedFileManifest) Bytes() []byte {
	var buf bytes.Buffer
	for _, p := range m.paths {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
