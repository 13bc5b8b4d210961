package triple

import (
	"fmt"
	"strings"
)

// Platform describes the fallback triples for one operating system.
type Platform struct {
	// Default is used when no machine-specific entry matches.
	Default Triple `yaml:"default"`
	// Machines maps a machine architecture name (as reported by uname -m) to its triple.
	Machines map[string]Triple `yaml:"machines,omitempty"`
}

// FallbackTable maps a lower-case operating system name to its fallback triples.
type FallbackTable map[string]Platform

// DefaultTable returns the built-in fallback table used when no toolchain is available.
func DefaultTable() FallbackTable {
	return FallbackTable{
		"windows": {
			Default: "x86_64-pc-windows-msvc",
		},
		"darwin": {
			Default: "x86_64-apple-darwin",
			Machines: map[string]Triple{
				"arm64": "aarch64-apple-darwin",
			},
		},
		"linux": {
			Default: "x86_64-unknown-linux-gnu",
		},
	}
}

// Lookup returns the triple for the given operating system and machine.
func (t FallbackTable) Lookup(osName, machine string) (Triple, error) {
	system := strings.ToLower(strings.TrimSpace(osName))

	platform, ok := t[system]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, system)
	}

	if result, ok := platform.Machines[strings.TrimSpace(machine)]; ok && !result.IsZero() {
		return result, nil
	}

	if platform.Default.IsZero() {
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, system, machine)
	}

	return platform.Default, nil
}
