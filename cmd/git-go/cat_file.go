package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/cobra"
)

var errConflictingCatFileOptions = errors.New("only one of -t, -s, -p may be given")

func newCatFileCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p) OBJECT",
		Short: "Provide content or type and size information for a repository object",
		Args:  cobra.ExactArgs(1),
	}

	typeOnly := cmd.Flags().BoolP("t", "t", false, "show the object's type")
	sizeOnly := cmd.Flags().BoolP("s", "s", false, "show the object's size")
	prettyPrint := cmd.Flags().BoolP("p", "p", false, "pretty-print the object's content")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return catFileCmd(cmd.OutOrStdout(), cfg, args[0], *typeOnly, *sizeOnly, *prettyPrint)
	}
	return cmd
}

func catFileCmd(out io.Writer, cfg *flags, idOrPrefix string, typeOnly, sizeOnly, prettyPrint bool) (err error) {
	selected := 0
	for _, b := range []bool{typeOnly, sizeOnly, prettyPrint} {
		if b {
			selected++
		}
	}
	if selected != 1 {
		return errConflictingCatFileOptions
	}

	r, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepository(r, &err)

	o, err := r.CatFile(idOrPrefix)
	if err != nil {
		return err
	}

	switch {
	case typeOnly:
		fmt.Fprintln(out, o.Type().String())
	case sizeOnly:
		fmt.Fprintln(out, strconv.Itoa(o.Size()))
	case prettyPrint:
		return prettyPrintObject(out, o)
	}
	return nil
}

func prettyPrintObject(out io.Writer, o *object.Object) error {
	switch o.Type() {
	case object.TypeCommit:
		c, err := o.AsCommit()
		if err != nil {
			return fmt.Errorf("could not parse commit: %w", err)
		}
		fmt.Fprintf(out, "tree %s\n", c.TreeID())
		for _, id := range c.ParentIDs() {
			fmt.Fprintf(out, "parent %s\n", id)
		}
		fmt.Fprintf(out, "author %s\n", c.Author())
		fmt.Fprintf(out, "committer %s\n", c.Committer())
		fmt.Fprintln(out)
		fmt.Fprint(out, c.Message())
	case object.TypeTree:
		t, err := o.AsTree()
		if err != nil {
			return fmt.Errorf("could not parse tree: %w", err)
		}
		for _, e := range t.Entries() {
			fmt.Fprintf(out, "%06o %s %s\t%s\n", e.Mode, e.Mode.ObjectType(), e.ID, e.Path)
		}
	case object.TypeBlob:
		out.Write(o.Bytes()) //nolint:errcheck // writer errors surface through the caller's own I/O, not worth wrapping here
	}
	return nil
}
