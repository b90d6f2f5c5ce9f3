package fsbackend

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/halvorsen/gitgo/backend"
	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/internal/errutil"
	"github.com/halvorsen/gitgo/internal/gitpath"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/afero"
)

// ErrObjectNotFound is returned when an object can't be found in the
// object database.
var ErrObjectNotFound = errors.New("object not found")

// Object returns the object that has the given oid.
// This method can be called concurrently.
func (b *Backend) Object(oid githash.Oid) (*object.Object, error) {
	key := oid.Bytes()
	b.objectMu.Lock(key)
	defer b.objectMu.Unlock(key)

	return b.objectUnsafe(oid)
}

func (b *Backend) objectUnsafe(oid githash.Oid) (*object.Object, error) {
	if cachedO, found := b.cache.Get(oid); found {
		if o, valid := cachedO.(*object.Object); valid {
			return o, nil
		}
	}

	o, err := b.looseObject(oid)
	if err != nil {
		return nil, err
	}
	b.cache.Add(oid, o)
	return o, nil
}

// looseObjectPath returns the absolute path of an object:
// .git/objects/first_2_chars_of_sha/remaining_chars_of_sha
// Ex. the path of fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3 is:
// .git/objects/fc/fe68a0e44e04bd7fd564fc0b75f1ae457e18b3
func (b *Backend) looseObjectPath(sha string) string {
	return filepath.Join(b.root, gitpath.ObjectsPath, sha[:2], sha[2:])
}

// looseObject reads, decompresses, and parses the loose object
// matching the given oid.
func (b *Backend) looseObject(oid githash.Oid) (o *object.Object, err error) {
	strOid := oid.String()
	p := b.looseObjectPath(strOid)

	f, err := b.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", strOid, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("could not open object %s at path %s: %w", strOid, p, err)
	}
	defer errutil.Close(f, &err)

	compressed, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("could not read object %s at path %s: %w", strOid, p, err)
	}

	obj, err := object.Parse(compressed)
	if err != nil {
		return nil, fmt.Errorf("could not parse object %s at path %s: %w", strOid, p, err)
	}
	if obj.ID() != oid {
		return nil, fmt.Errorf("object at path %s has id %s, expected %s: %w", p, obj.ID(), strOid, object.ErrObjectInvalid)
	}
	return obj, nil
}

// HasObject returns whether an object exists in the odb.
// This method can be called concurrently.
func (b *Backend) HasObject(oid githash.Oid) (bool, error) {
	key := oid.Bytes()
	b.objectMu.Lock(key)
	defer b.objectMu.Unlock(key)

	return b.hasObjectUnsafe(oid)
}

func (b *Backend) hasObjectUnsafe(oid githash.Oid) (bool, error) {
	_, err := b.objectUnsafe(oid)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("could not get object: %w", err)
}

// WriteObject adds an object to the odb.
// This method can be called concurrently.
func (b *Backend) WriteObject(o *object.Object) (githash.Oid, error) {
	oid := o.ID()
	key := oid.Bytes()
	b.objectMu.Lock(key)
	defer b.objectMu.Unlock(key)

	// Make sure the object doesn't already exist: git objects are
	// content-addressed so a hit here means the content is identical.
	found, err := b.hasObjectUnsafe(oid)
	if err != nil {
		return githash.NullOid, fmt.Errorf("could not check if object %s already exists: %w", oid, err)
	}
	if found {
		return oid, nil
	}

	data := o.Compress()
	sha := oid.String()
	p := b.looseObjectPath(sha)

	dest := filepath.Dir(p)
	if err := b.fs.MkdirAll(dest, 0o755); err != nil {
		return githash.NullOid, fmt.Errorf("could not create the destination directory %s: %w", dest, err)
	}

	// git objects are read-only once written
	if err := afero.WriteFile(b.fs, p, data, 0o444); err != nil {
		return githash.NullOid, fmt.Errorf("could not persist object %s at path %s: %w", sha, p, err)
	}

	b.looseObjects.Store(oid, struct{}{})
	b.cache.Add(oid, o)
	return oid, nil
}

// loadLooseObjects walks .git/objects once and records every loose
// object id found, so WalkLooseObjectIDs doesn't need to re-walk the
// filesystem on every call.
func (b *Backend) loadLooseObjects() error {
	b.looseMu.Lock()
	defer b.looseMu.Unlock()
	if b.looseObjectsOk {
		return nil
	}

	root := filepath.Join(b.root, gitpath.ObjectsPath)
	err := afero.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// an empty repo has no ./objects directory yet
			return nil
		}
		if path == root {
			return nil
		}

		if info.IsDir() {
			if !isLooseObjectDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		prefix := filepath.Base(filepath.Dir(path))
		if !isLooseObjectDir(prefix) || filepath.Ext(info.Name()) != "" {
			return nil
		}

		sha := prefix + info.Name()
		oid, err := githash.FromHex(sha)
		if err != nil {
			return fmt.Errorf("could not get oid from %s: %w", sha, err)
		}
		b.looseObjects.Store(oid, struct{}{})
		return nil
	})
	if err != nil {
		return err
	}
	b.looseObjectsOk = true
	return nil
}

// isLooseObjectDir checks if a directory name is anything between 00 and ff.
func isLooseObjectDir(name string) bool {
	if len(name) != 2 {
		return false
	}
	dirNum, err := strconv.ParseInt(name, 16, 64)
	return err == nil && dirNum >= 0x00 && dirNum <= 0xff
}

// WalkLooseObjectIDs runs f on every loose object id in the database.
func (b *Backend) WalkLooseObjectIDs(f func(id githash.Oid) error) error {
	if err := b.loadLooseObjects(); err != nil {
		return fmt.Errorf("could not list loose objects: %w", err)
	}

	var err error
	b.looseObjects.Range(func(key, _ interface{}) bool {
		err = f(key.(githash.Oid))
		return err == nil
	})
	if errors.Is(err, backend.WalkStop) {
		return nil
	}
	return err
}
