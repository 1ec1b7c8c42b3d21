// Package reconcile computes which upper-layer entries must be removed before
// the layer is regenerated.
package reconcile

import (
	"path"
	"slices"

	"go.trai.ch/genpack/internal/core/domain"
)

// Plan returns the minimal set of entries of current to delete: every entry
// that is neither listed in owned nor an ancestor directory of a listed path.
// Descendants of a deleted entry are omitted since removing the ancestor
// removes them too.
//
// Every entry of current is validated first. If any escapes the root, Plan
// returns a PathSafetyError and no deletions.
func Plan(current []string, owned domain.OwnedFileManifest) ([]string, error) {
	normalized := make([]string, 0, len(current))
	for _, p := range current {
		clean, err := domain.NormalizeRelPath(p)
		if err != nil {
			return nil, err
		}
		if clean == "." {
			continue
		}
		normalized = append(normalized, clean)
	}

	keep := expand(owned)

	var candidates []string
	for _, p := range normalized {
		if _, ok := keep[p]; !ok {
			candidates = append(candidates, p)
		}
	}
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	deleted := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if hasDeletedAncestor(p, deleted) {
			continue
		}
		deleted[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// expand returns the owned paths together with all of their ancestors.
func expand(owned domain.OwnedFileManifest) map[string]struct{} {
	keep := make(map[string]struct{}, owned.Len()*2)
	for _, p := range owned.Paths() {
		for q := p; q != "." && q != "/"; q = path.Dir(q) {
			if _, seen := keep[q]; seen {
				break
			}
			keep[q] = struct{}{}
		}
	}
	return keep
}

func hasDeletedAncestor(p string, deleted map[string]struct{}) bool {
	for q := path.Dir(p); q != "."; q = path.Dir(q) {
		if _, ok := deleted[q]; ok {
			return true
		}
	}
	return false
}

// Batches splits paths into consecutive groups of at most size entries.
// A non-positive size yields a single batch.
func Batches(paths []string, size int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{slices.Clone(paths)}
	}
	out := make([][]string, 0, (len(paths)+size-1)/size)
	for chunk := range slices.Chunk(paths, size) {
		out = append(out, slices.Clone(chunk))
	}
	return out
}
