// Package common holds helpers shared by several services.
//
// It runs external commands with their output streamed into the logger and
// detects the operating system and machine architecture of the build host.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
