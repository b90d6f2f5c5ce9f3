package main

import (
	"fmt"
	"io"
	"os"

	"github.com/halvorsen/gitgo"
	"github.com/halvorsen/gitgo/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object FILE",
		Short: "Compute the object id of a file, optionally storing it",
		Args:  cobra.ExactArgs(1),
	}

	typ := cmd.Flags().StringP("type", "t", "blob", "the object type to frame the content as")
	write := cmd.Flags().BoolP("write", "w", false, "actually write the object into the object database")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), cfg, args[0], *typ, *write)
	}

	return cmd
}

func hashObjectCmd(out io.Writer, cfg *flags, filePath, typ string, write bool) (err error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	objType, err := object.NewTypeFromString(typ)
	if err != nil {
		return fmt.Errorf("unsupported object type %s: %w", typ, err)
	}

	if !write {
		id := object.New(objType, content).ID()
		fmt.Fprintln(out, id.String())
		return nil
	}

	r, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepository(r, &err)

	id, err := r.HashObject(content, gitgo.HashObjectOptions{Type: objType, Write: true})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id.String())
	return nil
}
