package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}

// AttachCobraVersionFlag wires a --version flag instead of a subcommand.
// Commands whose first positional argument is free-form must use this one,
// otherwise "version" could never be passed as an argument.
func AttachCobraVersionFlag(root *cobra.Command) {
	root.Version = Short()
	root.SetVersionTemplate(Full() + "\n")
}
