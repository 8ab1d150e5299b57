package cmd

import (
	"fmt"

	"reposynth/pkg/combine"
	"reposynth/pkg/ignore"
	"reposynth/pkg/logging"

	"github.com/spf13/cobra"
)

// newTreeCmd previews which files a run would include, without their content.
func newTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the files that would be combined as a directory tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Logger

			_, cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			runOpts, err := opts.resolve(cfg)
			if err != nil {
				return err
			}

			tree, err := combine.GenerateTree(runOpts.Root, ignore.Chain(runOpts.Policy, runOpts.Rules), logger)
			if err != nil {
				return fmt.Errorf("failed to generate tree structure: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tree)
			return err
		},
	}
}
