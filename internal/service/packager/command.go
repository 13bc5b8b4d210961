package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/universe-sidecar/internal/config"
	"github.com/oshokin/universe-sidecar/internal/domain/triple"
	"github.com/oshokin/universe-sidecar/internal/logger"
	"github.com/oshokin/universe-sidecar/internal/repository/manifest"
	"github.com/oshokin/universe-sidecar/internal/service/common"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is the packager settings file; defaults are used when it does not exist.
	ConfigPath string
	// Config, when set, is used instead of reading ConfigPath.
	Config *config.Config
	// TripleOverride is the value of TAURI_TARGET_TRIPLE, read once by the caller.
	TripleOverride string
	// Runner executes external commands; ExecRunner is used when nil.
	Runner common.Runner
	// Platform describes the build host; it is detected when zero.
	Platform common.Platform
	// Processes lists running processes; go-ps is used when nil.
	Processes ProcessLister
}

// Result describes the published artifact.
type Result struct {
	// Path is the published artifact location.
	Path string
	// Triple is the resolved target triple.
	Triple triple.Triple
	// Size is the artifact size in bytes.
	Size int64
}

var (
	// ErrDependencySync is returned when a dependency command fails.
	ErrDependencySync = errors.New("dependency preparation failed")
	// ErrBuildTool is returned when the build command fails.
	ErrBuildTool = errors.New("build command failed")
	// ErrMissingArtifact is returned when the build reported success but produced no file.
	ErrMissingArtifact = errors.New("built executable not found")
)

// packager holds the state of one packaging run.
// Callers use Run, which handles setup and validation.
type packager struct {
	// cfg holds the validated settings.
	cfg *config.Config
	// runner executes external commands.
	runner common.Runner
	// platform is the build host.
	platform common.Platform
	// processes lists running processes for stale artifact checks.
	processes ProcessLister
	// repo stores the publish manifest; nil when disabled.
	repo manifest.Repository
	// override is the explicit target triple, if any.
	override string
}

// Run executes the packaging workflow and returns the published artifact.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "sidecar-packager")

	pkg, err := newPackager(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("initialize packager: %w", err)
	}

	result, err := pkg.Run(ctx)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Packager completed successfully",
		"path", result.Path, "triple", result.Triple, "size", humanize.Bytes(uint64(result.Size))) //nolint:gosec // Sizes are non-negative.

	return result, nil
}

// newPackager resolves settings and collaborators.
func newPackager(ctx context.Context, opts *Options) (*packager, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, found, err := config.LoadOrDefault(opts.ConfigPath)
		if err != nil {
			return nil, err
		}

		if !found {
			logger.InfoKV(ctx, "Settings file not found, using defaults", "path", opts.ConfigPath)
		}

		cfg = loaded
	} else if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	pkg := &packager{
		cfg:       cfg,
		runner:    opts.Runner,
		platform:  opts.Platform,
		processes: opts.Processes,
		override:  opts.TripleOverride,
	}

	if pkg.runner == nil {
		pkg.runner = common.ExecRunner{}
	}

	if pkg.platform.OS == "" {
		pkg.platform = common.DetectPlatform(ctx)
	}

	if pkg.processes == nil {
		pkg.processes = systemProcesses
	}

	if cfg.ManifestEnabled() {
		pkg.repo = manifest.NewFileRepository(cfg.Resolve(cfg.ManifestPath))
	}

	return pkg, nil
}

// Run performs every step in order, stopping at the first failure.
func (p *packager) Run(ctx context.Context) (*Result, error) {
	logger.Info(ctx, "Preparing build dependencies")

	if err := p.prepareDependencies(ctx); err != nil {
		return nil, err
	}

	target, err := p.resolveTriple(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve target triple: %w", err)
	}

	ctx = logger.WithKV(ctx, "triple", target)

	built, published, err := p.paths(target)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Building sidecar", "output", built)

	if err = p.build(ctx, built); err != nil {
		return nil, err
	}

	if err = p.relocate(ctx, built, published); err != nil {
		return nil, err
	}

	info, err := os.Stat(published)
	if err != nil {
		return nil, fmt.Errorf("stat published artifact: %w", err)
	}

	result := &Result{
		Path:   published,
		Triple: target,
		Size:   info.Size(),
	}

	if err = p.record(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// paths returns the pre-rename and published artifact locations.
func (p *packager) paths(target triple.Triple) (string, string, error) {
	outputDir, err := filepath.Abs(p.cfg.Resolve(p.cfg.OutputDir))
	if err != nil {
		return "", "", fmt.Errorf("resolve output directory: %w", err)
	}

	ext := common.ExecutableExtension(p.platform.OS)

	built := filepath.Join(outputDir, p.cfg.BaseName+ext)
	published := filepath.Join(outputDir, PublishedName(p.cfg.BaseName, target, ext))

	return built, published, nil
}

// PublishedName is the file name contract with the host shell.
func PublishedName(baseName string, target triple.Triple, ext string) string {
	return baseName + "-" + target.String() + ext
}
