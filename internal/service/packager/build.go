package packager

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/universe-sidecar/internal/config"
	"github.com/oshokin/universe-sidecar/internal/domain/triple"
	"github.com/oshokin/universe-sidecar/internal/logger"
	"github.com/oshokin/universe-sidecar/internal/service/common"
)

// prepareDependencies runs every dependency command; the first failure aborts the run.
func (p *packager) prepareDependencies(ctx context.Context) error {
	for _, line := range p.cfg.DependencyCommands {
		words, err := config.SplitCommand(line)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDependencySync, err)
		}

		if err = p.runner.Run(ctx, common.NewCommand(p.cfg.ProjectDir, words...)); err != nil {
			return fmt.Errorf("%w: %w", ErrDependencySync, err)
		}
	}

	return nil
}

// resolveTriple snapshots the environment once and runs the resolution chain over it.
func (p *packager) resolveTriple(ctx context.Context) (triple.Triple, error) {
	env := &triple.Environment{
		Override: p.override,
		OS:       p.platform.OS,
		Machine:  p.platform.Machine,
		Table:    p.cfg.FallbackTable,
	}

	// The toolchain is only consulted when nothing overrides it.
	if env.Override == "" {
		env.Toolchain = p.queryToolchain(ctx)
	}

	return triple.Resolve(ctx, env)
}

// queryToolchain runs the toolchain inspection command and classifies its failure.
func (p *packager) queryToolchain(ctx context.Context) *triple.ToolchainReport {
	words, err := config.SplitCommand(p.cfg.ToolchainCommand)
	if err != nil {
		return &triple.ToolchainReport{Err: err}
	}

	output, err := p.runner.Output(ctx, common.NewCommand(p.cfg.ProjectDir, words...))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.WarnKV(ctx, "Toolchain query exited with an error, using the fallback table",
				"command", p.cfg.ToolchainCommand, "error", err)

			err = fmt.Errorf("%w: %w", triple.ErrToolchainInvocation, err)
		}

		return &triple.ToolchainReport{Output: output, Err: err}
	}

	return &triple.ToolchainReport{Output: output}
}

// build runs the build command so that it writes the executable to built.
func (p *packager) build(ctx context.Context, built string) error {
	words, err := config.SplitCommand(p.cfg.BuildCommand)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildTool, err)
	}

	words = append(words, BuildArgs(p.cfg, built)...)

	if err = p.runner.Run(ctx, common.NewCommand(p.cfg.ProjectDir, words...)); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildTool, err)
	}

	return nil
}

// BuildArgs returns the output arguments appended to the build command.
// built is the absolute pre-rename artifact path.
func BuildArgs(cfg *config.Config, built string) []string {
	if cfg.BuildStyle == config.BuildStylePyInstaller {
		return []string{
			"--onefile",
			"--name", cfg.BaseName,
			"--distpath", filepath.Dir(built),
			cfg.EntryPoint,
		}
	}

	return []string{"-o", built, cfg.EntryPoint}
}
