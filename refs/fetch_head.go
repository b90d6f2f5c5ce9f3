package refs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/halvorsen/gitgo/githash"
)

// FetchHeadEntry represents a single line of FETCH_HEAD: one ref that
// was updated by the most recent fetch, along with whether it is a
// candidate for merging (the ref passed explicitly on the fetch/pull
// command line, as opposed to every other ref also fetched along the
// way).
type FetchHeadEntry struct {
	ID          githash.Oid
	ForMerge    bool
	Description string
}

// ParseFetchHead parses the contents of a FETCH_HEAD file: one entry
// per line, formatted as "{40-hex-oid}\t{'' or 'not-for-merge'}\t{description}".
func ParseFetchHead(data []byte) ([]FetchHeadEntry, error) {
	var entries []FetchHeadEntry
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		fields := strings.SplitN(string(line), "\t", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed FETCH_HEAD line %q: %w", line, ErrInvalid)
		}
		id, err := githash.FromHex(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed FETCH_HEAD oid %q: %w", fields[0], ErrInvalid)
		}
		entries = append(entries, FetchHeadEntry{
			ID:          id,
			ForMerge:    fields[1] != "not-for-merge",
			Description: fields[2],
		})
	}
	return entries, nil
}

// FormatFetchHead renders entries back into FETCH_HEAD's on-disk form.
func FormatFetchHead(entries []FetchHeadEntry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.ID.String())
		buf.WriteByte('\t')
		if !e.ForMerge {
			buf.WriteString("not-for-merge")
		}
		buf.WriteByte('\t')
		buf.WriteString(e.Description)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// MergeCandidate returns the first entry marked ForMerge, the ref a
// bare "git merge FETCH_HEAD" (after a plain "git fetch") would merge.
func MergeCandidate(entries []FetchHeadEntry) (FetchHeadEntry, bool) {
	for _, e := range entries {
		if e.ForMerge {
			return e, true
		}
	}
	return FetchHeadEntry{}, false
}
