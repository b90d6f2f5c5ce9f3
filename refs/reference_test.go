package refs_test

import (
	"testing"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/refs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNameValid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc       string
		name       string
		shouldPass bool
	}{
		{desc: "name with control chars should fail", name: "ml/not\000valide", shouldPass: false},
		{desc: "name with DEL should fail", name: "ml/not\177valide", shouldPass: false},
		{desc: "name with slashes should pass", name: "ml/some/name_/that/I/often-use/89", shouldPass: true},
		{desc: "name cannot be empty", name: "", shouldPass: false},
		{desc: "name cannot start with a /", name: "/refs/heads/master", shouldPass: false},
		{desc: "name cannot end with a /", name: "refs/heads/master/", shouldPass: false},
		{desc: "name cannot contain ..", name: "refs/heads/ma..ster", shouldPass: false},
		{desc: "name cannot contain ?", name: "refs/heads/master?", shouldPass: false},
		{desc: "name cannot contain :", name: "refs/heads/ma:ster", shouldPass: false},
		{desc: `name cannot contain \`, name: `refs/heads/ma\ster`, shouldPass: false},
		{desc: "name cannot contain ^", name: "refs/heads/ma^ster", shouldPass: false},
		{desc: "name cannot contain @{", name: "refs/heads/ma@{ster}", shouldPass: false},
		{desc: "name can end with @", name: "refs/heads/master@", shouldPass: true},
		{desc: "name cannot start with a .", name: ".refs/heads/master", shouldPass: false},
		{desc: "name cannot end with a .", name: "refs/heads/master.", shouldPass: false},
		{desc: "name cannot contain a [", name: "[refs/heads/master", shouldPass: false},
		{desc: "segment cannot end in .lock", name: "refs/heads/master.lock", shouldPass: false},
		{desc: "simple branch name should pass", name: "refs/heads/main", shouldPass: true},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.shouldPass, refs.IsNameValid(tc.name))
		})
	}
}

func TestResolveDirectReference(t *testing.T) {
	t.Parallel()

	id := githash.Sum([]byte("commit 0\x00"))
	lookup := func(name string) ([]byte, error) {
		assert.Equal(t, "refs/heads/main", name)
		return []byte(id.String() + "\n"), nil
	}

	ref, err := refs.Resolve("refs/heads/main", lookup)
	require.NoError(t, err)
	assert.Equal(t, refs.OidRef, ref.Type())
	assert.Equal(t, id, ref.Target())
}

func TestResolveFollowsSymbolicChain(t *testing.T) {
	t.Parallel()

	id := githash.Sum([]byte("commit 0\x00"))
	lookup := func(name string) ([]byte, error) {
		switch name {
		case "HEAD":
			return []byte("ref: refs/heads/main\n"), nil
		case "refs/heads/main":
			return []byte(id.String() + "\n"), nil
		default:
			t.Fatalf("unexpected lookup %q", name)
			return nil, nil
		}
	}

	ref, err := refs.Resolve("HEAD", lookup)
	require.NoError(t, err)
	assert.Equal(t, refs.SymbolicRef, ref.Type())
	assert.Equal(t, "refs/heads/main", ref.SymbolicTarget())
	assert.Equal(t, id, ref.Target())
}

func TestResolveDetectsCycles(t *testing.T) {
	t.Parallel()

	lookup := func(name string) ([]byte, error) {
		switch name {
		case "refs/heads/a":
			return []byte("ref: refs/heads/b\n"), nil
		case "refs/heads/b":
			return []byte("ref: refs/heads/a\n"), nil
		default:
			t.Fatalf("unexpected lookup %q", name)
			return nil, nil
		}
	}

	_, err := refs.Resolve("refs/heads/a", lookup)
	require.ErrorIs(t, err, refs.ErrTooManyRedirects)
}

func TestIsBranch(t *testing.T) {
	t.Parallel()

	assert.True(t, refs.IsBranch("refs/heads/main"))
	assert.False(t, refs.IsBranch("refs/tags/v1.0"))
	assert.False(t, refs.IsBranch("HEAD"))
}

func TestLocalBranchFullAndShortName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "refs/heads/main", refs.LocalBranchFullName("main"))
	assert.Equal(t, "main", refs.LocalBranchShortName("refs/heads/main"))
}
