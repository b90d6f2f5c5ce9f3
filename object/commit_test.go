package object_test

import (
	"testing"
	"time"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureString(t *testing.T) {
	t.Parallel()

	sig := object.Signature{
		Name:  "John Doe",
		Email: "john@domain.tld",
		Time:  time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.Equal(t, "John Doe <john@domain.tld> 1609556645 +0000", sig.String())
}

func TestSignatureFromBytesRoundTrip(t *testing.T) {
	t.Parallel()

	sig := object.Signature{
		Name:  "Jane Doe",
		Email: "jane@domain.tld",
		Time:  time.Date(2021, 1, 2, 3, 4, 5, 0, time.FixedZone("", -7*60*60)),
	}
	parsed, err := object.NewSignatureFromBytes([]byte(sig.String()))
	require.NoError(t, err)
	assert.Equal(t, sig.Name, parsed.Name)
	assert.Equal(t, sig.Email, parsed.Email)
	assert.True(t, sig.Time.Equal(parsed.Time))
}

func TestSignatureFromBytesRejectsMalformed(t *testing.T) {
	t.Parallel()

	testCases := []string{
		"",
		"No Email Here",
		"John Doe <unterminated",
		"John Doe <john@domain.tld>",
		"John Doe <john@domain.tld> notanumber -0700",
	}
	for _, tc := range testCases {
		_, err := object.NewSignatureFromBytes([]byte(tc))
		require.Error(t, err)
	}
}

func TestCommitEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	treeID := githash.Sum([]byte("tree 0\x00"))
	parentID := githash.Sum([]byte("commit 0\x00"))
	author := object.Signature{
		Name:  "John Doe",
		Email: "john@domain.tld",
		Time:  time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	commit := object.NewCommit(treeID, author, object.CommitOptions{
		Message:   "initial commit\n",
		ParentIDs: []githash.Oid{parentID},
	})

	parsed, err := object.NewCommitFromObject(commit.ToObject())
	require.NoError(t, err)
	assert.Equal(t, treeID, parsed.TreeID())
	assert.Equal(t, []githash.Oid{parentID}, parsed.ParentIDs())
	assert.Equal(t, author.Name, parsed.Author().Name)
	assert.Equal(t, author.Email, parsed.Author().Email)
	assert.True(t, author.Time.Equal(parsed.Author().Time))
	assert.Equal(t, parsed.Author(), parsed.Committer(), "committer should default to author")
	assert.Equal(t, "initial commit\n", parsed.Message())
}

func TestCommitWithoutParentsIsRoot(t *testing.T) {
	t.Parallel()

	treeID := githash.Sum([]byte("tree 0\x00"))
	author := object.NewSignature("Root Author", "root@domain.tld")
	commit := object.NewCommit(treeID, author, object.CommitOptions{Message: "root"})

	parsed, err := object.NewCommitFromObject(commit.ToObject())
	require.NoError(t, err)
	assert.Empty(t, parsed.ParentIDs())
}

func TestCommitFromObjectRejectsMissingTree(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeCommit, []byte("author John Doe <john@domain.tld> 1 +0000\n\nmsg"))
	_, err := object.NewCommitFromObject(o)
	require.ErrorIs(t, err, object.ErrCommitInvalid)
}

func TestCommitFromObjectRejectsWrongType(t *testing.T) {
	t.Parallel()

	_, err := object.NewCommitFromObject(object.New(object.TypeBlob, []byte("x")))
	require.ErrorIs(t, err, object.ErrObjectInvalid)
}
