package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
)

func newResolveCmd() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "resolve <jar> <entry>",
		Short: "Show the declarations an entry resolves to",
		Long: `Show the declarations an entry resolves to and the entries that must be renamed with it.

Entries are written as a/b/C, a/b/C.field:I, a/b/C.method(I)V or a/b/C.method(I)V#1 for a local variable slot.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := entry.Parse(args[1])
			if err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer ws.Close()

			if !ws.index.EntryIndex().HasEntry(e) {
				loggerFromContext(cmd.Context()).Warn("entry is not declared in the jar", "entry", e)
			}

			out := cmd.OutOrStdout()
			resolver := ws.index.Resolver()
			for _, strategy := range []index.ResolutionStrategy{index.ResolveRoot, index.ResolveClosest} {
				for _, resolved := range resolver.ResolveEntry(e, strategy) {
					fmt.Fprintf(out, "%-11s %s\n", strategy, resolved)
				}
			}
			for _, eq := range resolver.ResolveEquivalentEntries(e) {
				fmt.Fprintf(out, "%-11s %s\n", "equivalent", eq)
			}

			if m, ok := e.(entry.MethodEntry); ok && tree {
				resolver.BuildMethodInheritance(m).Walk(func(node index.MethodTreeNode, depth int) {
					marker := " "
					if node.Implemented {
						marker = "*"
					}
					fmt.Fprintf(out, "%s%s %s\n", strings.Repeat("  ", depth), marker, node.Method)
				})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "print the inheritance tree of a method")
	return cmd
}
