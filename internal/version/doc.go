// Package version exposes build metadata for the packager and the sidecar.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags (-X github.com/oshokin/universe-sidecar/internal/version.Version=...).
// Short is recorded in the publish manifest; Full is printed by the CLIs.
package version
