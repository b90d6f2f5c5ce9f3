package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halvorsen/gitgo/githash"
	"github.com/halvorsen/gitgo/internal/readutil"
)

// ErrSignatureInvalid is returned when a commit's author/committer
// signature couldn't be parsed.
var ErrSignatureInvalid = errors.New("commit signature is invalid")

// Signature represents an author or committer, with the time the
// commit was authored or committed.
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String returns the signature in its on-disk form:
// "Name <email> unix-seconds +-hhmm". The timezone offset is always
// computed from Time's own location, never a fixed value, so a commit
// records whatever offset its author's clock was actually set to.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero reports whether the signature is the zero value.
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature returns a signature for name/email, stamped with the
// current local time.
func NewSignature(name, email string) Signature {
	return Signature{Name: name, Email: email, Time: time.Now()}
}

// NewSignatureFromBytes parses a signature of the form:
//
//	Name <email> unix-seconds +-hhmm
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	name := readutil.ReadTo(b, '<')
	if name == nil {
		return sig, fmt.Errorf("could not find the name: %w", ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(name))
	offset := len(name) + 1 // skip "<"
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the name: %w", ErrSignatureInvalid)
	}

	email := readutil.ReadTo(b[offset:], '>')
	if email == nil {
		return sig, fmt.Errorf("could not find the email: %w", ErrSignatureInvalid)
	}
	sig.Email = string(email)
	offset += len(email) + 2 // skip "> "
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the email: %w", ErrSignatureInvalid)
	}

	timestamp := readutil.ReadTo(b[offset:], ' ')
	if timestamp == nil {
		return sig, fmt.Errorf("could not find the timestamp: %w", ErrSignatureInvalid)
	}
	offset += len(timestamp) + 1
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the timestamp: %w", ErrSignatureInvalid)
	}

	unixSeconds, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	sig.Time = time.Unix(unixSeconds, 0)

	timezone := b[offset:]
	tz, err := time.Parse("-0700", string(timezone))
	if err != nil {
		return sig, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions holds the optional fields used when creating a commit.
type CommitOptions struct {
	Message string
	// Committer is the person recording the commit. Defaults to Author
	// when left zero.
	Committer Signature
	ParentIDs []githash.Oid
}

// Commit represents a commit object.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature
	message   string

	parentIDs []githash.Oid
	treeID    githash.Oid
}

// NewCommit creates a new Commit. Oids are not validated against an
// object store; callers are expected to have written the tree and any
// parents already.
func NewCommit(treeID githash.Oid, author Signature, opts CommitOptions) *Commit {
	c := &Commit{
		treeID:    treeID,
		author:    author,
		committer: opts.Committer,
		message:   opts.Message,
		parentIDs: opts.ParentIDs,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.toObject()
	return c
}

// NewCommitFromObject parses o as a Commit.
//
// A commit is a sequence of header lines followed by a blank line and
// a free-form message:
//
//	tree {id}
//	parent {id}         (zero or more)
//	author {signature}
//	committer {signature}
//	{blank line}
//	{message}
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, fmt.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}

	ci := &Commit{rawObject: o}
	data := o.Bytes()
	offset := 0
	for {
		line := readutil.ReadTo(data[offset:], '\n')
		if line == nil && offset == len(data) {
			break
		}
		if line == nil {
			return nil, fmt.Errorf("could not find commit header line: %w", ErrCommitInvalid)
		}
		offset += len(line) + 1

		if len(line) == 0 {
			ci.message = string(data[offset:])
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed header line %q: %w", line, ErrCommitInvalid)
		}

		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = githash.FromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse tree id %q: %w", kv[1], err)
			}
		case "parent":
			var parentID githash.Oid
			parentID, err = githash.FromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse parent id %q: %w", kv[1], err)
			}
			ci.parentIDs = append(ci.parentIDs, parentID)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse author signature: %w", err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse committer signature: %w", err)
			}
		}
	}

	if ci.author.IsZero() {
		return nil, fmt.Errorf("commit has no author: %w", ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, fmt.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}
	return ci, nil
}

// ID returns the commit's id.
func (c *Commit) ID() githash.Oid {
	return c.rawObject.ID()
}

// Author returns the signature of the person who authored the changes.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the signature of the person who recorded the commit.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the ids of the commit's parents:
//   - 0 for the first commit of an orphan branch
//   - 1 for a regular commit or fast-forward merge
//   - 2 or more for a true (non-fast-forward) merge
func (c *Commit) ParentIDs() []githash.Oid {
	out := make([]githash.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the id of the commit's tree.
func (c *Commit) TreeID() githash.Oid {
	return c.treeID
}

// ToObject returns the Commit's underlying Object.
func (c *Commit) ToObject() *Object {
	return c.rawObject
}

func (c *Commit) toObject() *Object {
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(c.message)

	return New(TypeCommit, buf.Bytes())
}
