package triple

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const rustcOutput = `rustc 1.83.0 (90b35a623 2024-11-26)
binary: rustc
commit-hash: 90b35a6239c3d8bdabc530a6a0816f7ff89a0aaf
commit-date: 2024-11-26
host: x86_64-unknown-linux-gnu
release: 1.83.0
LLVM version: 19.1.1
`

var errNoSuchFile = errors.New(`exec: "rustc": executable file not found in $PATH`)

// TestFallbackTable covers every supported OS/machine combination and the unsupported case.
func TestFallbackTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		os      string
		machine string
		want    Triple
	}{
		{os: "windows", machine: "x86_64", want: "x86_64-pc-windows-msvc"},
		{os: "darwin", machine: "arm64", want: "aarch64-apple-darwin"},
		{os: "darwin", machine: "x86_64", want: "x86_64-apple-darwin"},
		{os: "linux", machine: "x86_64", want: "x86_64-unknown-linux-gnu"},
		{os: "Linux", machine: "aarch64", want: "x86_64-unknown-linux-gnu"},
		{os: "Windows", machine: "", want: "x86_64-pc-windows-msvc"},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.os+"/"+tc.machine, func(t *testing.T) {
			t.Parallel()

			got, err := FromTable(&Environment{OS: tc.os, Machine: tc.machine})
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := FromTable(&Environment{OS: "freebsd", Machine: "amd64"})
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestFallbackTable_Custom checks that a configured table replaces the built-in one.
func TestFallbackTable_Custom(t *testing.T) {
	t.Parallel()

	table := FallbackTable{
		"linux": {
			Default:  "x86_64-unknown-linux-gnu",
			Machines: map[string]Triple{"aarch64": "aarch64-unknown-linux-gnu"},
		},
	}

	got, err := FromTable(&Environment{OS: "linux", Machine: "aarch64", Table: table})
	require.NoError(t, err)
	require.Equal(t, Triple("aarch64-unknown-linux-gnu"), got)

	_, err = FromTable(&Environment{OS: "darwin", Machine: "arm64", Table: table})
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestResolve_OverrideWins ensures a non-empty override is returned unchanged on any host.
func TestResolve_OverrideWins(t *testing.T) {
	t.Parallel()

	for _, host := range []string{"linux", "darwin", "windows", "plan9"} {
		env := &Environment{
			Override: "not-even-a-triple",
			OS:       host,
			Machine:  "arm64",
			Toolchain: &ToolchainReport{
				Output: rustcOutput,
			},
		}

		got, err := Resolve(context.Background(), env)
		require.NoError(t, err)
		require.Equal(t, Triple("not-even-a-triple"), got)
	}
}

// TestResolve_Toolchain parses the host line from the toolchain report.
func TestResolve_Toolchain(t *testing.T) {
	t.Parallel()

	env := &Environment{
		OS:        "darwin",
		Machine:   "arm64",
		Toolchain: &ToolchainReport{Output: rustcOutput},
	}

	got, err := Resolve(context.Background(), env)
	require.NoError(t, err)
	require.Equal(t, Triple("x86_64-unknown-linux-gnu"), got)
	require.Equal(t, "x86_64", got.Arch())
}

// TestResolve_ToolchainExitFallsBack checks that a non-zero toolchain exit uses the static table.
func TestResolve_ToolchainExitFallsBack(t *testing.T) {
	t.Parallel()

	env := &Environment{
		OS:      "darwin",
		Machine: "arm64",
		Toolchain: &ToolchainReport{
			Err: fmt.Errorf("%w: exit status 1", ErrToolchainInvocation),
		},
	}

	got, err := Resolve(context.Background(), env)
	require.NoError(t, err)
	require.Equal(t, Triple("aarch64-apple-darwin"), got)
}

// TestResolve_ToolchainMissingIsFatal checks that failures other than a non-zero exit stop resolution.
func TestResolve_ToolchainMissingIsFatal(t *testing.T) {
	t.Parallel()

	env := &Environment{
		OS:        "linux",
		Machine:   "x86_64",
		Toolchain: &ToolchainReport{Err: errNoSuchFile},
	}

	_, err := Resolve(context.Background(), env)
	require.ErrorIs(t, err, errNoSuchFile)
	require.NotErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestResolve_NoHostLineIsFatal pins the current behaviour: a successful toolchain
// run without a host line is an error and does not fall back to the table.
func TestResolve_NoHostLineIsFatal(t *testing.T) {
	t.Parallel()

	env := &Environment{
		OS:        "linux",
		Machine:   "x86_64",
		Toolchain: &ToolchainReport{Output: "rustc 1.83.0\nbinary: rustc\n"},
	}

	got, err := Resolve(context.Background(), env)
	require.ErrorIs(t, err, ErrHostTripleNotFound)
	require.True(t, got.IsZero())
}

// TestResolve_NotQueriedUsesTable checks that a skipped toolchain query goes straight to the table.
func TestResolve_NotQueriedUsesTable(t *testing.T) {
	t.Parallel()

	got, err := Resolve(context.Background(), &Environment{OS: "windows", Machine: "AMD64"})
	require.NoError(t, err)
	require.Equal(t, Triple("x86_64-pc-windows-msvc"), got)
}

// TestResolve_CustomChain checks that strategies are tried in the given order.
func TestResolve_CustomChain(t *testing.T) {
	t.Parallel()

	var called []string

	skip := Strategy{Name: "skip", Resolve: func(*Environment) (Triple, error) {
		called = append(called, "skip")

		return "", ErrNotApplicable
	}}
	fixed := Strategy{Name: "fixed", Resolve: func(*Environment) (Triple, error) {
		called = append(called, "fixed")

		return "riscv64gc-unknown-linux-gnu", nil
	}}
	never := Strategy{Name: "never", Resolve: func(*Environment) (Triple, error) {
		called = append(called, "never")

		return "", nil
	}}

	got, err := Resolve(context.Background(), &Environment{}, skip, fixed, never)
	require.NoError(t, err)
	require.Equal(t, Triple("riscv64gc-unknown-linux-gnu"), got)
	require.Equal(t, []string{"skip", "fixed"}, called)

	_, err = Resolve(context.Background(), &Environment{OS: "haiku"}, skip)
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}
