package gitgo

import (
	"fmt"
	"sort"

	"github.com/halvorsen/gitgo/diff"
	"github.com/spf13/afero"
)

// FileDiff is one path's line-level diff between the index's stored
// blob and the working-tree copy.
type FileDiff struct {
	Path string
	// Unified is the rendered diff: unchanged lines prefixed with a
	// space, removed lines with "-", added lines with "+".
	Unified string
}

// Diff compares the working-tree content of paths (every staged path,
// if none are given) against what's staged in the index, and returns
// the line-level diff for every path whose content actually differs.
// A path present in the index but deleted from the working tree diffs
// against an empty string.
func (r *Repository) Diff(paths ...string) ([]FileDiff, error) {
	entries, err := r.WT.ReadIndex()
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]string, len(entries))
	for _, e := range entries {
		if len(paths) > 0 && !contains(paths, e.Path) {
			continue
		}
		byPath[e.Path] = ""
		o, err := r.Store.Object(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("could not load blob for %s: %w", e.Path, err)
		}
		byPath[e.Path] = string(o.AsBlob().Bytes())
	}

	names := make([]string, 0, len(byPath))
	for p := range byPath {
		names = append(names, p)
	}
	sort.Strings(names)

	var out []FileDiff
	for _, p := range names {
		staged := byPath[p]
		working, err := afero.ReadFile(r.WT.FS, r.WT.AbsPath(p))
		if err != nil {
			working = nil
		}
		if staged == string(working) {
			continue
		}
		diffs := diff.Do(staged, string(working))
		out = append(out, FileDiff{Path: p, Unified: diff.Unified(diffs)})
	}
	return out, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
