//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectPlatform ensures the host is always described.
func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	p := DetectPlatform(context.Background())
	require.Equal(t, runtime.GOOS, p.OS)
	require.NotEmpty(t, p.Machine)
}

// TestMachineFromGOARCH checks the uname spellings used by the fallback table.
func TestMachineFromGOARCH(t *testing.T) {
	t.Parallel()

	require.Equal(t, "x86_64", MachineFromGOARCH("linux", "amd64"))
	require.Equal(t, "arm64", MachineFromGOARCH("darwin", "arm64"))
	require.Equal(t, "aarch64", MachineFromGOARCH("linux", "arm64"))
	require.Equal(t, "i386", MachineFromGOARCH("windows", "386"))
	require.Equal(t, "riscv64", MachineFromGOARCH("linux", "riscv64"))
}

// TestExecutableExtension covers Windows and the rest.
func TestExecutableExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".exe", ExecutableExtension("windows"))
	require.Empty(t, ExecutableExtension("linux"))
	require.Empty(t, ExecutableExtension("darwin"))
}
