package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/universe-sidecar/internal/config"
	"github.com/oshokin/universe-sidecar/internal/domain/triple"
	"github.com/oshokin/universe-sidecar/internal/logger"
	"github.com/oshokin/universe-sidecar/internal/service/packager"
	"github.com/oshokin/universe-sidecar/internal/version"
)

var (
	// configPath to the packager settings file.
	configPath string
	// logLevel is the minimum level of log messages.
	logLevel string

	// rootCmd represents the base command for building and publishing the sidecar.
	rootCmd = &cobra.Command{
		Use:   "sidecar-packager",
		Short: "Build the sidecar and publish it under its target-triple name.",
		Long: `Builds the sidecar executable and places it where the Tauri shell expects it.

Steps, stopping at the first failure:
  1. run the dependency commands;
  2. resolve the target triple (TAURI_TARGET_TRIPLE, then "rustc -vV", then a built-in table);
  3. run the build command;
  4. rename <output-dir>/<base-name><ext> to <output-dir>/<base-name>-<triple><ext>.

Defaults are used when the settings file does not exist.`,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: applyLogLevel,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			override, _ := os.LookupEnv(triple.OverrideEnvVar)

			options := &packager.Options{
				ConfigPath:     configPath,
				TripleOverride: override,
			}

			result, err := packager.Run(ctx, options)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[SUCCESS] Sidecar built: %s\n", result.Path)

			return nil
		},
	}
)

// Execute runs the sidecar-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	executed, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	if executed == rootCmd {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "[ERROR] Failed to build sidecar: %v\n", err)
	} else {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "[ERROR] %v\n", err)
	}

	os.Exit(1)
}

// applyLogLevel sets the global log level from the --log-level flag.
func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to packager settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(initCmd)
}
