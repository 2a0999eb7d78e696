// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/tree"
	"github.com/creachadair/jbind/tree/cursor"
	"github.com/creachadair/jbind/tree/query"
	"github.com/spf13/cobra"
)

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a document to another format",
		Long: `Convert reads a document and writes it in another format.

The input is read from the named file, or from stdin if it is omitted or "-".
The input and output formats are inferred from the file names unless --from
or --to is set. The default output format is JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			root, err := a.parse(cmd, argOr(args, 0))
			if err != nil {
				return err
			}
			return a.emit(cmd, root, a.v.GetString("output"))
		}),
	}
	flags := cmd.Flags()
	flags.StringP("from", "f", "", "input format")
	flags.StringP("to", "t", "", "output format")
	flags.StringP("output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path> [input]",
		Short: "Print the value at a path in a document",
		Long: `Get reads a document and prints the value at the given path.

A path is a sequence of keys separated by dots, with bracketed indexes for
array elements, for example "servers[0].name". Negative indexes count back
from the end of an array. Keys containing dots or brackets may be quoted.
An empty path selects the whole document.

With --recur, get prints an array of every value in the document reached by
the path from any starting point. With --raw, a string or number result is
printed without quotes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			keys, err := cursor.ParsePath(args[0])
			if err != nil {
				return err
			}
			q := query.Path(keys...)
			if a.v.GetBool("recur") {
				q = query.Recur(keys...)
			}

			root, err := a.parse(cmd, argOr(args, 1))
			if err != nil {
				return err
			}
			v, err := query.Eval(root, q)
			if err != nil {
				return fmt.Errorf("get %q: %w", args[0], err)
			}
			a.log.Debug().Str("path", args[0]).Str("result", tree.Describe(v)).Msg("found")

			if p, ok := v.(tree.Primitive); ok && a.v.GetBool("raw") {
				if s, err := p.AsString(); err == nil {
					return a.write(cmd, "", []byte(s))
				}
			}
			return a.emit(cmd, v, "")
		}),
	}
	flags := cmd.Flags()
	flags.StringP("from", "f", "", "input format")
	flags.StringP("to", "t", "", "output format (default json)")
	flags.BoolP("raw", "r", false, "print strings and numbers without quotes")
	flags.Bool("recur", false, "match the path at every level of the document")
	return cmd
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported format names",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			for _, name := range jbind.Formats() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}
}
