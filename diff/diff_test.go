package diff_test

import (
	"testing"

	"github.com/halvorsen/gitgo/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

func TestDoEqualInputsProduceNoChanges(t *testing.T) {
	t.Parallel()

	diffs := diff.Do("a\nb\nc\n", "a\nb\nc\n")
	for _, d := range diffs {
		assert.Equal(t, diffmatchpatch.DiffEqual, d.Type)
	}
}

func TestUnifiedMarksAddedAndRemovedLines(t *testing.T) {
	t.Parallel()

	diffs := diff.Do("a\nb\nc\n", "a\nB\nc\n")
	out := diff.Unified(diffs)

	assert.Contains(t, out, "-b\n")
	assert.Contains(t, out, "+B\n")
	assert.Contains(t, out, " a\n")
	assert.Contains(t, out, " c\n")
}

func TestUnifiedHandlesEmptySides(t *testing.T) {
	t.Parallel()

	assert.Empty(t, diff.Unified(diff.Do("", "")))

	added := diff.Unified(diff.Do("", "new\n"))
	assert.Equal(t, "+new\n", added)

	removed := diff.Unified(diff.Do("old\n", ""))
	assert.Equal(t, "-old\n", removed)
}
