package integration

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeToolEnv switches the test binary into fake tool mode.
const fakeToolEnv = "UNIVERSE_SIDECAR_FAKE_TOOL"

// TestFakeTool is not a real test: the packager runs the test binary as its external tools.
// The first argument after "--" selects the behaviour:
//
//	deps                 exit 0
//	deps-fail            exit 1
//	rustc <triple>       print `host: <triple>`
//	rustc-fail           exit 1
//	build ... -o <file>  write a fake executable to <file>
//	build-empty          exit 0 without writing anything
func TestFakeTool(_ *testing.T) {
	if os.Getenv(fakeToolEnv) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}

	if len(args) < 2 { //nolint:mnd // "--" and the mode.
		os.Exit(2)
	}

	switch mode, rest := args[1], args[2:]; mode {
	case "deps", "build-empty":
		fmt.Println("ok")
		os.Exit(0)
	case "deps-fail", "rustc-fail":
		fmt.Fprintln(os.Stderr, "fake tool failure")
		os.Exit(1)
	case "rustc":
		fmt.Printf("rustc 1.90.0\nbinary: rustc\nhost: %s\nrelease: 1.90.0\n", rest[0])
		os.Exit(0)
	case "build":
		for i := 0; i < len(rest)-1; i++ {
			if rest[i] == "-o" {
				if err := os.WriteFile(rest[i+1], []byte("fake sidecar executable"), 0o755); err != nil { //nolint:gosec // Test fixture.
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}

				os.Exit(0)
			}
		}

		os.Exit(1)
	default:
		os.Exit(2)
	}
}

// fakeTool returns a command line that runs the test binary in the given mode.
func fakeTool(t *testing.T, mode ...string) string {
	t.Helper()

	self, err := filepath.Abs(os.Args[0])
	require.NoError(t, err)

	words := append([]string{quote(self), "-test.run=^TestFakeTool$", "--"}, mode...)

	return strings.Join(words, " ")
}

// quote wraps a path in single quotes for shell-style splitting.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// reservePort returns address on a free TCP port and closes it.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}
