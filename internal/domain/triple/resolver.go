package triple

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oshokin/universe-sidecar/internal/logger"
)

// hostPattern extracts the host triple from `rustc -vV` output.
var hostPattern = regexp.MustCompile(`host: (\S+)`)

// ToolchainReport is the captured result of the toolchain inspection command.
type ToolchainReport struct {
	// Output is the command's standard output.
	Output string
	// Err is the invocation error, wrapped with ErrToolchainInvocation on a non-zero exit.
	Err error
}

// Environment is everything resolution may look at, collected once per build.
type Environment struct {
	// Override is the value of TAURI_TARGET_TRIPLE.
	Override string
	// Toolchain is nil when the toolchain was not queried.
	Toolchain *ToolchainReport
	// OS is the operating system name (runtime.GOOS spelling).
	OS string
	// Machine is the hardware architecture name as reported by the kernel.
	Machine string
	// Table is the static fallback table; DefaultTable is used when nil.
	Table FallbackTable
}

// Strategy is one step of the resolution chain.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string
	// Resolve computes a triple or returns ErrNotApplicable to defer to the next strategy.
	Resolve func(env *Environment) (Triple, error)
}

// DefaultStrategies returns the resolution chain in priority order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "override", Resolve: FromOverride},
		{Name: "toolchain", Resolve: FromToolchain},
		{Name: "fallback-table", Resolve: FromTable},
	}
}

// Resolve walks the strategies in order and returns the first triple produced.
// Any error other than ErrNotApplicable stops the walk.
func Resolve(ctx context.Context, env *Environment, strategies ...Strategy) (Triple, error) {
	if env == nil {
		env = new(Environment)
	}

	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	for _, strategy := range strategies {
		result, err := strategy.Resolve(env)

		switch {
		case errors.Is(err, ErrNotApplicable):
			logger.DebugKV(ctx, "Target triple strategy skipped", "strategy", strategy.Name, "reason", err)

			continue
		case err != nil:
			return "", fmt.Errorf("%s: %w", strategy.Name, err)
		case result.IsZero():
			continue
		}

		logger.InfoKV(ctx, "Target triple resolved", "strategy", strategy.Name, "triple", result)

		return result, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, env.OS)
}

// FromOverride uses the override verbatim. Its shape is not validated.
func FromOverride(env *Environment) (Triple, error) {
	if env.Override == "" {
		return "", ErrNotApplicable
	}

	return Triple(env.Override), nil
}

// FromToolchain parses the host line reported by the toolchain.
//
// A non-zero exit defers to the next strategy. Any other invocation failure is
// fatal, and so is a successful run whose output lacks a host line.
func FromToolchain(env *Environment) (Triple, error) {
	report := env.Toolchain
	if report == nil {
		return "", ErrNotApplicable
	}

	if report.Err != nil {
		if errors.Is(report.Err, ErrToolchainInvocation) {
			return "", fmt.Errorf("%w: %w", ErrNotApplicable, report.Err)
		}

		return "", fmt.Errorf("query toolchain: %w", report.Err)
	}

	match := hostPattern.FindStringSubmatch(report.Output)
	if match == nil {
		return "", ErrHostTripleNotFound
	}

	return Triple(strings.TrimSpace(match[1])), nil
}

// FromTable looks the platform up in the static fallback table.
func FromTable(env *Environment) (Triple, error) {
	table := env.Table
	if table == nil {
		table = DefaultTable()
	}

	return table.Lookup(env.OS, env.Machine)
}
