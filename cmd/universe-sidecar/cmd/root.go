package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/universe-sidecar/internal/logger"
	"github.com/oshokin/universe-sidecar/internal/service/server"
	"github.com/oshokin/universe-sidecar/internal/version"
)

var (
	// host is the interface to bind.
	host string
	// logLevel is the minimum level of log messages.
	logLevel string
	// noAccessLog disables per-request logging.
	noAccessLog bool
	// allowedOrigins overrides the default CORS origins.
	allowedOrigins []string

	// rootCmd represents the base command for running the HTTP server.
	rootCmd = &cobra.Command{
		Use:   "universe-sidecar [command] [port]",
		Short: "Run the Universe HTTP server.",
		Long: `Starts the Universe HTTP server on the loopback interface.

The first argument is accepted for compatibility with the host shell and defaults to "serve".
The second argument is the TCP port and defaults to 8000.`,
		Args:         cobra.MaximumNArgs(2), //nolint:mnd // [command] [port].
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			options, err := server.ParseArgs(args)
			if err != nil {
				return err
			}

			options.Host = host
			options.AccessLog = !noAccessLog
			options.AllowedOrigins = allowedOrigins

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the universe-sidecar CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionFlag(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVar(&host, "host", server.DefaultHost, "interface to bind")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noAccessLog, "no-access-log", false, "disable per-request logging")
	rootCmd.Flags().
		StringSliceVar(&allowedOrigins, "allowed-origin", nil, "CORS origin allowed to call the API (repeatable)")
}
