//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/oshokin/universe-sidecar/internal/logger"
)

// Platform names the build host.
type Platform struct {
	// OS is the operating system in runtime.GOOS spelling.
	OS string
	// Machine is the hardware architecture as reported by the kernel (uname -m).
	Machine string
}

// DetectPlatform reports the host OS and machine architecture.
// The kernel is asked first so an emulated binary still sees the real CPU;
// the compile-time architecture is used if that query fails.
func DetectPlatform(ctx context.Context) Platform {
	platform := Platform{
		OS: runtime.GOOS,
	}

	machine, err := host.KernelArch()
	if err == nil && strings.TrimSpace(machine) != "" {
		platform.Machine = strings.TrimSpace(machine)

		return platform
	}

	platform.Machine = MachineFromGOARCH(runtime.GOOS, runtime.GOARCH)

	logger.DebugKV(ctx, "Kernel architecture unavailable, using build architecture",
		"error", err, "machine", platform.Machine)

	return platform
}

// MachineFromGOARCH maps a Go architecture to the name uname -m would print.
func MachineFromGOARCH(goos, goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i386"
	case "arm64":
		if goos == "darwin" {
			return "arm64"
		}

		return "aarch64"
	default:
		return goarch
	}
}

// ExecutableExtension returns ".exe" on Windows and "" elsewhere.
func ExecutableExtension(goos string) string {
	if strings.Contains(strings.ToLower(goos), "windows") {
		return ".exe"
	}

	return ""
}
