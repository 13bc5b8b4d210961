package triple

import (
	"errors"
	"strings"
)

// OverrideEnvVar names the environment variable that forces a target triple.
const OverrideEnvVar = "TAURI_TARGET_TRIPLE"

// Triple is a platform identifier of the form <arch>-<vendor>-<os>[-<abi>].
type Triple string

var (
	// ErrNotApplicable is returned by a strategy that has nothing to say about the environment.
	ErrNotApplicable = errors.New("strategy not applicable")
	// ErrToolchainInvocation marks a toolchain query that ran but exited non-zero.
	// It is the only toolchain failure that falls through to the static table.
	ErrToolchainInvocation = errors.New("toolchain invocation failed")
	// ErrHostTripleNotFound is returned when the toolchain output has no host line.
	ErrHostTripleNotFound = errors.New("failed to determine platform target triple")
	// ErrUnsupportedPlatform is returned when no strategy can name the platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// String implements fmt.Stringer.
func (t Triple) String() string {
	return string(t)
}

// IsZero reports whether the triple is empty.
func (t Triple) IsZero() bool {
	return t == ""
}

// Arch returns the leading architecture component, e.g. "aarch64".
func (t Triple) Arch() string {
	arch, _, _ := strings.Cut(string(t), "-")

	return arch
}
