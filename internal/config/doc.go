// Package config defines the packager settings and provides helpers to load,
// validate and save them in YAML format.
//
// A missing config file is not an error: the packager falls back to defaults
// that build the Go sidecar in this repository.
package config
