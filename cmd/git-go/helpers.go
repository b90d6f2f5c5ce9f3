package main

import (
	"fmt"

	"github.com/halvorsen/gitgo"
)

// openRepository opens the repository rooted at (or above) cfg.C.
func openRepository(cfg *flags) (*gitgo.Repository, error) {
	r, err := gitgo.Open(cfg.C, gitgo.InitOptions{})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return r, nil
}

// closeRepository closes r, folding a non-nil close error into *err
// only when the command hadn't already failed.
func closeRepository(r *gitgo.Repository, err *error) {
	if closeErr := r.Close(); closeErr != nil && *err == nil {
		*err = closeErr
	}
}
