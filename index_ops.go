package gitgo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/index"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/afero"
)

// LsFiles returns every path currently staged in the index, sorted.
func (r *Repository) LsFiles() ([]index.Entry, error) {
	entries, err := r.WT.ReadIndex()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Add hashes and writes a blob for each given working-tree path and
// stages the result in the index.
func (r *Repository) Add(paths ...string) error {
	entries, err := r.WT.ReadIndex()
	if err != nil {
		return err
	}
	byPath := make(map[string]index.Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	for _, p := range paths {
		abs := r.WT.AbsPath(p)
		content, err := afero.ReadFile(r.WT.FS, abs)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", p, err)
		}
		oid, err := r.Store.WriteObject(object.New(object.TypeBlob, content))
		if err != nil {
			return fmt.Errorf("could not write blob for %s: %w", p, err)
		}
		info, err := r.WT.FS.Stat(abs)
		if err != nil {
			return fmt.Errorf("could not stat %s: %w", p, err)
		}
		byPath[p] = index.NewEntry(p, info, oid)
	}

	merged := make([]index.Entry, 0, len(byPath))
	for _, e := range byPath {
		merged = append(merged, e)
	}
	return r.WT.WriteIndex(merged)
}

// WriteTree writes a tree object for the index's current contents,
// grouping paths into sub-trees by their "/"-separated directory
// components, and returns the root tree's id.
func (r *Repository) WriteTree() (githash.Oid, error) {
	entries, err := r.LsFiles()
	if err != nil {
		return githash.NullOid, err
	}
	return writeTreeNode(r.Store.WriteObject, entries)
}

// pathEntry is an index.Entry with its path already made relative to
// the tree node currently being built.
type pathEntry struct {
	relPath string
	hash    githash.Oid
	mode    uint32
}

func writeTreeNode(write func(*object.Object) (githash.Oid, error), entries []index.Entry) (githash.Oid, error) {
	rel := make([]pathEntry, len(entries))
	for i, e := range entries {
		rel[i] = pathEntry{relPath: e.Path, hash: e.Hash, mode: e.Mode}
	}
	return writeTreeLevel(write, rel)
}

func writeTreeLevel(write func(*object.Object) (githash.Oid, error), entries []pathEntry) (githash.Oid, error) {
	files := map[string]pathEntry{}
	dirs := map[string][]pathEntry{}

	for _, e := range entries {
		if i := strings.IndexByte(e.relPath, '/'); i >= 0 {
			name, rest := e.relPath[:i], e.relPath[i+1:]
			dirs[name] = append(dirs[name], pathEntry{relPath: rest, hash: e.hash, mode: e.mode})
			continue
		}
		files[e.relPath] = e
	}

	names := make([]string, 0, len(files)+len(dirs))
	for name := range files {
		names = append(names, name)
	}
	for name := range dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	treeEntries := make([]object.Entry, 0, len(names))
	for _, name := range names {
		if e, ok := files[name]; ok {
			mode := object.ModeFile
			if e.mode&0o111 != 0 {
				mode = object.ModeExecutable
			}
			treeEntries = append(treeEntries, object.Entry{Path: name, ID: e.hash, Mode: mode})
			continue
		}

		subTreeOid, err := writeTreeLevel(write, dirs[name])
		if err != nil {
			return githash.NullOid, err
		}
		treeEntries = append(treeEntries, object.Entry{Path: name, ID: subTreeOid, Mode: object.ModeDirectory})
	}

	tree := object.NewTree(treeEntries)
	return write(tree.ToObject())
}

// ReadTree replaces the index with the flattened contents of the tree
// at id.
func (r *Repository) ReadTree(id githash.Oid) error {
	out := map[string]object.Entry{}
	if err := flattenTreeInto(r.Store, id, "", out); err != nil {
		return err
	}

	entries := make([]index.Entry, 0, len(out))
	for path, e := range out {
		mode := uint32(object.ModeFile)
		if e.Mode == object.ModeExecutable {
			mode = uint32(object.ModeExecutable)
		}
		entries = append(entries, index.Entry{
			Path:  path,
			Hash:  e.ID,
			Mode:  mode,
			Flags: uint16(len(path)),
		})
	}
	return r.WT.WriteIndex(entries)
}

func flattenTreeInto(store interface {
	Object(githash.Oid) (*object.Object, error)
}, treeOid githash.Oid, prefix string, out map[string]object.Entry) error {
	o, err := store.Object(treeOid)
	if err != nil {
		return fmt.Errorf("could not load tree %s: %w", treeOid, err)
	}
	tree, err := o.AsTree()
	if err != nil {
		return fmt.Errorf("could not parse tree %s: %w", treeOid, err)
	}
	for _, e := range tree.Entries() {
		p := e.Path
		if prefix != "" {
			p = prefix + "/" + e.Path
		}
		if e.Mode == object.ModeDirectory {
			if err := flattenTreeInto(store, e.ID, p, out); err != nil {
				return err
			}
			continue
		}
		out[p] = object.Entry{Path: p, ID: e.ID, Mode: e.Mode}
	}
	return nil
}
