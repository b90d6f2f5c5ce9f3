// Package diff renders a line-level diff between two file contents.
// It leans entirely on a third-party diff library rather than a
// hand-rolled LCS routine.
//
// The approach follows go-git's utils/diff package: line-mode
// diffing via diffmatchpatch's DiffLinesToChars/DiffCharsToLines
// round-trip (treat each source line as a single "character" so the
// underlying Myers diff operates over lines, not runes), followed by
// DiffCleanupSemantic to merge noisy adjacent edits into readable
// hunks.
package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Do returns the line-level diff between a and b.
func Do(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	aChars, bChars, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	return dmp.DiffCleanupSemantic(diffs)
}

// Unified renders diffs in a compact unified-style form: unchanged
// lines are prefixed with a space, removed lines with "-", added
// lines with "+". This is not a full unified-diff (no @@ hunk
// headers or surrounding-context windowing); status/log/porcelain
// output is all this engine needs, and the hard part - computing the
// line-level edit script - is entirely delegated to diffmatchpatch.
func Unified(diffs []diffmatchpatch.Diff) string {
	var out []byte
	for _, d := range diffs {
		prefix := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = '+'
		case diffmatchpatch.DiffDelete:
			prefix = '-'
		}
		for _, line := range splitLines(d.Text) {
			out = append(out, prefix)
			out = append(out, line...)
			out = append(out, '\n')
		}
	}
	return string(out)
}

// splitLines splits s on '\n', dropping the trailing empty element a
// terminal newline would otherwise produce, and never returning a
// single empty-string element for empty input.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
