package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/universe-sidecar/internal/config"
)

var (
	// buildStyle selects the defaults written by init.
	buildStyle string
	// force allows init to overwrite an existing settings file.
	force bool

	// initCmd writes a settings file with every default spelled out.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default packager settings file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("%w: %s (use --force to overwrite)", config.ErrConfigExists, configPath)
				}
			}

			cfg := &config.Config{BuildStyle: buildStyle}
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[SUCCESS] Settings written: %s\n", configPath)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().StringVar(&buildStyle, "style", config.BuildStyleGo, "build style: go or pyinstaller")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
}
