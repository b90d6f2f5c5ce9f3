package fsbackend

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/halvorsen/gitgo/refs"
	"github.com/spf13/afero"
)

// ErrPackedRefInvalid is returned when a packed-refs line doesn't
// match the "{oid} {name}" format this implementation understands.
var ErrPackedRefInvalid = errors.New("invalid packed-ref entry")

// Reference returns a stored reference from its name. ErrNotFound is
// returned if the reference doesn't exist on disk or in packed-refs.
func (b *Backend) Reference(name string) (*refs.Reference, error) {
	var packedRef map[string]string

	finder := func(name string) ([]byte, error) {
		data, err := afero.ReadFile(b.fs, b.systemPath(name))
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("could not read reference content: %w", err)
			}
			// if the reference can't be found on disk, it might be
			// in the packed-refs file
			if packedRef == nil {
				packedRef, err = b.parsePackedRefs()
				if err != nil {
					return nil, fmt.Errorf("couldn't load packed-refs: %w", err)
				}
			}
			sha, ok := packedRef[name]
			if !ok {
				return nil, fmt.Errorf("ref %q: %w", name, refs.ErrNotFound)
			}
			return []byte(sha), nil
		}
		return data, nil
	}
	return refs.Resolve(name, finder)
}

// systemPath returns the absolute path of a reference, converting the
// unix-style name git always uses on disk into the host's separator.
func (b *Backend) systemPath(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

// parsePackedRefs parses the packed-refs file and returns a map of
// ref name to hex oid. https://git-scm.com/docs/git-pack-refs
func (b *Backend) parsePackedRefs() (refMap map[string]string, err error) {
	refMap = map[string]string{}
	f, err := b.fs.Open(filepath.Join(b.root, gitpath.PackedRefsPath))
	if err != nil {
		if os.IsNotExist(err) {
			return refMap, nil
		}
		return nil, fmt.Errorf("could not open %s: %w", gitpath.PackedRefsPath, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	sc := bufio.NewScanner(f)
	for i := 1; sc.Scan(); i++ {
		line := sc.Text()
		// skip empty lines, comments, and annotated tag commit markers
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: %w", i, ErrPackedRefInvalid)
		}
		refMap[parts[1]] = parts[0]
	}
	if sc.Err() != nil {
		return nil, fmt.Errorf("could not parse %s: %w", gitpath.PackedRefsPath, sc.Err())
	}
	return refMap, nil
}

// WriteReference writes ref on disk. If it already exists it is
// overwritten.
func (b *Backend) WriteReference(ref *refs.Reference) error {
	if !refs.IsNameValid(ref.Name()) {
		return refs.ErrInvalidName
	}

	var target string
	switch ref.Type() {
	case refs.SymbolicRef:
		target = fmt.Sprintf("ref: %s\n", ref.SymbolicTarget())
	case refs.OidRef:
		target = fmt.Sprintf("%s\n", ref.Target().String())
	default:
		return fmt.Errorf("unknown reference type %d", ref.Type())
	}

	p := b.systemPath(ref.Name())
	if err := b.fs.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("could not create directory for reference %s: %w", ref.Name(), err)
	}
	if err := afero.WriteFile(b.fs, p, []byte(target), 0o644); err != nil {
		return fmt.Errorf("could not persist reference to disk: %w", err)
	}
	return nil
}

// WriteReferenceSafe writes ref on disk. ErrExists is returned if the
// reference already exists, either loose or packed.
func (b *Backend) WriteReferenceSafe(ref *refs.Reference) error {
	if !refs.IsNameValid(ref.Name()) {
		return refs.ErrInvalidName
	}

	p := b.systemPath(ref.Name())
	_, err := b.fs.Stat(p)
	if !os.IsNotExist(err) {
		if err != nil {
			return fmt.Errorf("could not check if reference exists on disk: %w", err)
		}
		return refs.ErrExists
	}

	packed, err := b.parsePackedRefs()
	if err != nil {
		return fmt.Errorf("could not check %s: %w", gitpath.PackedRefsPath, err)
	}
	if _, ok := packed[ref.Name()]; ok {
		return refs.ErrExists
	}

	return b.WriteReference(ref)
}

// WalkReferences runs f on every loose reference under refs/, plus
// every name in packed-refs not shadowed by a loose file. Special refs
// (HEAD, FETCH_HEAD, MERGE_HEAD) are not walked: they name a single
// pointer, not a namespace.
func (b *Backend) WalkReferences(f backend.RefWalkFunc) error {
	seen := map[string]bool{}

	root := filepath.Join(b.root, gitpath.RefsPath)
	err := afero.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // no refs/ directory yet
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return fmt.Errorf("could not compute reference name for %s: %w", path, err)
		}
		name := filepath.ToSlash(rel)
		seen[name] = true

		ref, err := b.Reference(name)
		if err != nil {
			return fmt.Errorf("could not read reference %s: %w", name, err)
		}
		if err := f(ref); err != nil {
			if errors.Is(err, backend.WalkStop) {
				return backend.WalkStop
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, backend.WalkStop) {
			return nil
		}
		return err
	}

	packed, err := b.parsePackedRefs()
	if err != nil {
		return fmt.Errorf("could not load packed-refs: %w", err)
	}
	for name := range packed {
		if seen[name] {
			continue
		}
		ref, err := b.Reference(name)
		if err != nil {
			return fmt.Errorf("could not read packed reference %s: %w", name, err)
		}
		if walkErr := f(ref); walkErr != nil {
			if errors.Is(walkErr, backend.WalkStop) {
				return nil
			}
			return walkErr
		}
	}
	return nil
}
