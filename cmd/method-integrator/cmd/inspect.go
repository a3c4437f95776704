package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"method-integrator/internal/classfile"
)

func newInspectCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect <class-file>",
		Short: "List the methods of a class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read class file: %w", err)
			}

			c, err := classfile.Parse(data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			if dump {
				dumpConfig.Fdump(cmd.OutOrStdout(), c)
				return nil
			}

			return printClass(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed class model")

	return cmd
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func printClass(w io.Writer, c *classfile.Class) error {
	fmt.Fprintf(w, "class %s (version %d.%d)\n", c.JavaName(), c.MajorVersion, c.MinorVersion)
	if super := c.SuperName(); super != "" {
		fmt.Fprintf(w, "  extends %s\n", super)
	}
	for _, i := range c.Interfaces() {
		fmt.Fprintf(w, "  implements %s\n", i)
	}

	for _, m := range c.Methods() {
		fmt.Fprintf(w, "  %-28s %s", m.Key(), classfile.FormatMethodAccess(m.AccessFlags))

		code, err := m.Code()
		switch {
		case err == nil:
			fmt.Fprintf(w, " [code %d bytes, stack %d, locals %d]", len(code.Bytecode), code.MaxStack, code.MaxLocals)
		case !m.IsAbstract() && !m.IsNative():
			return fmt.Errorf("method %s: %w", m.Key(), err)
		}
		fmt.Fprintln(w)
	}

	return nil
}
