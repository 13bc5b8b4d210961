// Package manifest records published sidecar artifacts in a YAML file.
//
// Entries are keyed by target triple, so republishing for the same triple
// replaces the previous record instead of adding a second one.
package manifest
