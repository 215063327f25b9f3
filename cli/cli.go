package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/swind/go-jdeobf/config"
)

var (
	version = "dev"
	commit  string
)

// SetVersion records the build information shown by --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the command line with ctx, which cancels long index builds.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           "jdeobf",
		Short:         "jdeobf indexes obfuscated jars and renames their entries",
		Long:          `jdeobf builds an index of the classes in a jar, resolves member references through the class hierarchy and validates renames before applying them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
				logger.Debug("loaded config", "path", configPath)
			}

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("jdeobf %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(newIndexCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newRenameCmd())
	root.AddCommand(newRetraceCmd())
	return root
}
