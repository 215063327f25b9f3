package cli

import (
	"github.com/spf13/cobra"

	"github.com/swind/go-jdeobf/retrace"
)

func newRetraceCmd() *cobra.Command {
	var (
		verboseFrames bool
		allClassNames bool
	)

	cmd := &cobra.Command{
		Use:   "retrace <jar> <mapping> [stack trace]",
		Short: "Deobfuscate a stack trace",
		Long: `Deobfuscate a stack trace with a ProGuard mapping. Members are looked up in the indexed jar, so overloads that the trace cannot tell apart are listed as alternatives.

The stack trace is read from stdin when no file is given. Files ending in .gz are decompressed.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx).Retrace

			ws, err := openWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			defer ws.Close()

			remapper, err := ws.remapper(ctx, args[1])
			if err != nil {
				return err
			}

			tracePath := "-"
			if len(args) == 3 {
				tracePath = args[2]
			}
			in, err := openInput(tracePath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			rt := retrace.NewRetrace(retrace.NewFrameRemapper(remapper))
			rt.Verbose = verboseFrames || cfg.Verbose
			rt.AllClassNames = allClassNames || cfg.AllClassNames
			if len(cfg.Expressions) > 0 {
				rt.Expressions = cfg.Expressions
			}
			return rt.Retrace(in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&verboseFrames, "verbose-frames", false, "print member types and arguments")
	cmd.Flags().BoolVar(&allClassNames, "all-class-names", false, "deobfuscate class names outside of frames too")
	return cmd
}
