package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/universe-sidecar/internal/api/http/universe"
	"github.com/oshokin/universe-sidecar/internal/logger"
)

// NewHandler builds the full handler chain for the sidecar routes.
// Order from the outside in: recovery, CORS, security headers, access log, router.
func NewHandler(ctx context.Context, opts *Options) http.Handler {
	router := universe.NewServer().NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins()
	}

	secureMiddleware := secure.New(secure.Options{
		// The sidecar only listens on loopback without TLS.
		IsDevelopment:      true,
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: logger.FromContext(ctx)}),
		handlers.PrintRecoveryStack(false),
	)

	var handler http.Handler = router

	handler = accessLog(ctx, opts.AccessLog, handler)
	handler = secureMiddleware.Handler(handler)
	handler = cors(handler)

	return recovery(handler)
}

// accessLog logs one line per request, similar to uvicorn's access log.
func accessLog(ctx context.Context, enabled bool, next http.Handler) http.Handler {
	level := zapcore.InfoLevel
	if !enabled {
		level = zapcore.WarnLevel
	}

	access := logger.FromContext(ctx).Named("access").
		Desugar().
		WithOptions(logger.WithLevel(level)).
		Sugar()

	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, params handlers.LogFormatterParams) {
		logRequest(access, params)
	})
}

func logRequest(access *zap.SugaredLogger, params handlers.LogFormatterParams) {
	kvs := []any{
		"method", params.Request.Method,
		"path", params.URL.RequestURI(),
		"status", params.StatusCode,
		"size", params.Size,
		"duration", time.Since(params.TimeStamp),
		"remote", params.Request.RemoteAddr,
	}

	if params.StatusCode >= http.StatusInternalServerError {
		access.Warnw("Request failed", kvs...)

		return
	}

	access.Infow("Request served", kvs...)
}

// recoveryLogger adapts zap to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	// log receives recovered panics.
	log *zap.SugaredLogger
}

// Println implements handlers.RecoveryHandlerLogger.
func (r recoveryLogger) Println(args ...any) {
	r.log.Error(args...)
}
