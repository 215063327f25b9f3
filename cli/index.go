package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/swind/go-jdeobf/entry"
)

func newIndexCmd() *cobra.Command {
	var listClasses bool

	cmd := &cobra.Command{
		Use:   "index <jar>",
		Short: "Index a jar and print statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer ws.Close()

			fingerprint, err := ws.jar.Fingerprint()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := ws.index.EntryIndex()
			stat := func(name string, value int) { fmt.Fprintf(out, "%-12s %d\n", name, value) }
			stat("classes", len(entries.Classes()))
			stat("fields", len(entries.Fields()))
			stat("methods", len(entries.Methods()))
			stat("references", ws.index.ReferenceIndex().Len())
			stat("bridges", ws.index.BridgeMethodIndex().Len())
			stat("partitions", len(ws.index.PackageVisibilityIndex().Partitions()))
			fmt.Fprintf(out, "%-12s %016x\n", "fingerprint", fingerprint)

			if listClasses {
				printClasses(out, ws)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listClasses, "classes", false, "list the indexed classes with their parents")
	return cmd
}

func printClasses(out io.Writer, ws *workspace) {
	inheritance := ws.index.InheritanceIndex()
	for _, c := range ws.index.EntryIndex().Classes() {
		fmt.Fprintln(out, c.FullName())
		for _, parent := range inheritance.Parents(c) {
			fmt.Fprintf(out, "  extends %s\n", parent.FullName())
		}
		for _, child := range ws.index.ChildrenOf(c) {
			if _, ok := child.(entry.ClassEntry); ok {
				continue
			}
			fmt.Fprintf(out, "  %s\n", child)
		}
	}
}
