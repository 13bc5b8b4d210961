// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// The packager and the sidecar server both take a context and pull the logger
// out of it, so every step of a build and every request is logged with its scope.
package logger
