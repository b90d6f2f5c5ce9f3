package index

import (
	"os"
	"syscall"

	"github.com/halvorsen/gitgo/githash"
)

// maxFlagsPathLen is the largest path length the flags word's low 12
// bits (0..0xFFF) can record; longer paths clamp to it, the stage and
// extended/assume-valid bits above them are never touched.
const maxFlagsPathLen = 0xFFF

// NewEntry builds an Entry for path from its hashed blob content and
// the file's stat info, the same metadata git's own index stores to
// avoid rehashing unchanged files on every status check.
//
// On platforms or filesystems where the underlying *syscall.Stat_t
// isn't available (ex. an in-memory afero filesystem used in tests),
// the timestamp/device/inode fields are left zero: Status() always
// falls back to a content comparison in that case, so a zeroed stat
// only costs a cache hit, never correctness.
func NewEntry(path string, info os.FileInfo, hash githash.Oid) Entry {
	e := Entry{
		Size:  uint32(info.Size()),
		Hash:  hash,
		Flags: uint16(min(len(path), maxFlagsPathLen)),
		Path:  path,
	}
	if info.Mode()&0o111 != 0 {
		e.Mode = 0o100755
	} else {
		e.Mode = 0o100644
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		e.CtimeSec = uint32(stat.Ctim.Sec)
		e.CtimeNsec = uint32(stat.Ctim.Nsec)
		e.MtimeSec = uint32(stat.Mtim.Sec)
		e.MtimeNsec = uint32(stat.Mtim.Nsec)
		e.Dev = uint32(stat.Dev)
		e.Ino = uint32(stat.Ino)
		e.UID = stat.Uid
		e.GID = stat.Gid
	}

	return e
}
