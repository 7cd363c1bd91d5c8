package cmd

import (
	"fmt"

	"github.com/okapiscan/okapi/internal/version"
	"github.com/spf13/cobra"
)

// versionCmd prints the version banner.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
