package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/oshokin/universe-sidecar/internal/logger"
)

// Options controls the sidecar HTTP server.
type Options struct {
	// Command is the first positional argument. It is accepted for compatibility and ignored.
	Command string
	// Host is the interface to bind; loopback by default.
	Host string
	// Port is the TCP port to bind.
	Port int
	// AccessLog enables per-request logging.
	AccessLog bool
	// AllowedOrigins are the CORS origins allowed to call the API.
	AllowedOrigins []string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

const (
	// DefaultCommand is the default first positional argument.
	DefaultCommand = "serve"
	// DefaultHost is the loopback address the sidecar binds to.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the default TCP port.
	DefaultPort = 8000
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// readHeaderTimeout protects the listener from slow clients.
	readHeaderTimeout = 10 * time.Second
	// maxPort is the largest valid TCP port.
	maxPort = 65535
)

// errInvalidPort is returned for a port argument outside 1..65535 or not a number.
var errInvalidPort = errors.New("invalid port")

// DefaultAllowedOrigins lists the origins a Tauri webview uses, plus the Vite dev server.
func DefaultAllowedOrigins() []string {
	return []string{
		"tauri://localhost",
		"http://tauri.localhost",
		"https://tauri.localhost",
		"http://localhost:1420",
	}
}

// ParseArgs turns the positional arguments `[command] [port]` into options.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{
		Command: DefaultCommand,
		Host:    DefaultHost,
		Port:    DefaultPort,
	}

	if len(args) > 0 {
		opts.Command = args[0]
	}

	if len(args) > 1 {
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidPort, args[1])
		}

		opts.Port = port
	}

	if opts.Port <= 0 || opts.Port > maxPort {
		return nil, fmt.Errorf("%w: %d", errInvalidPort, opts.Port)
	}

	return opts, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "universe-sidecar")

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress(opts))
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress(opts), err)
	}

	return Serve(ctx, lis, opts)
}

// Serve serves on an existing listener until ctx is cancelled.
func Serve(ctx context.Context, lis net.Listener, opts *Options) error {
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	httpServer := &http.Server{
		Handler:           NewHandler(ctx, opts),
		ReadHeaderTimeout: readHeaderTimeout,
		// Requests keep the scoped logger but are not cancelled with the server context.
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	logger.InfoKV(ctx, "Universe server listening", "address", lis.Addr().String(), "command", opts.Command)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WarnKV(ctx, "Graceful shutdown incomplete", "error", err)
		}
	}()

	if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

func listenAddress(opts *Options) string {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	return net.JoinHostPort(host, strconv.Itoa(opts.Port))
}
