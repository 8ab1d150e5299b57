// File: cmd/version.go
package cmd

import (
	"fmt"

	"reposynth/pkg/version"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
// The --short flag prints the bare version number.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of reposynth",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v.Version)
		} else {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v.String())
		}
		return err
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
