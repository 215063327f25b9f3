package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/validation"
)

func newRenameCmd() *cobra.Command {
	var (
		mappingPath    string
		javadoc        string
		dryRun         bool
		acceptWarnings bool
	)

	cmd := &cobra.Command{
		Use:   "rename <jar> <entry> <name>",
		Short: "Validate and apply a rename",
		Long: `Validate a rename of an entry and apply it to every declaration that has to share the name.

The names of a ProGuard mapping given with --mapping are applied first. Warnings block the rename unless they are accepted with --accept-warnings or in the config.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			e, err := entry.Parse(args[1])
			if err != nil {
				return err
			}

			ws, err := openWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			defer ws.Close()

			remapper, err := ws.remapper(ctx, mappingPath)
			if err != nil {
				return err
			}

			m := remapper.ResolvedMapping(e).WithName(args[2])
			if cmd.Flags().Changed("javadoc") {
				m = m.WithJavadoc(javadoc)
			}

			accept := acceptWarnings || configFromContext(ctx).Rename.AcceptWarnings
			vc := validation.NewContext(validation.NewLogNotifier(logger, accept))
			if dryRun {
				err = remapper.ValidatePutMapping(vc, e, m)
			} else {
				err = remapper.PutMapping(vc, e, m)
			}
			if err != nil {
				return err
			}
			if err := vc.Err(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%s can be renamed to %s\n", e, m.TargetName)
				return nil
			}
			for _, changed := range remapper.TakeMappingDelta().ChangedEntries() {
				fmt.Fprintf(out, "%s -> %s\n", changed, remapper.Deobfuscate(changed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "ProGuard mapping to apply first")
	cmd.Flags().StringVar(&javadoc, "javadoc", "", "documentation to store with the name")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only validate the rename")
	cmd.Flags().BoolVar(&acceptWarnings, "accept-warnings", false, "apply the rename despite warnings")
	return cmd
}
