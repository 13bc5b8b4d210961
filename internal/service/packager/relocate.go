package packager

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/universe-sidecar/internal/logger"
	"github.com/oshokin/universe-sidecar/internal/repository/manifest"
	"github.com/oshokin/universe-sidecar/internal/version"
)

// ProcessLister returns the running processes.
type ProcessLister func() ([]ps.Process, error)

// commLength is the length Linux truncates process names to.
const commLength = 15

// systemProcesses lists processes through go-ps.
//
//nolint:gochecknoglobals // Function value, never mutated.
var systemProcesses ProcessLister = ps.Processes

// relocate publishes built at published, dealing with a sidecar still running from a previous build.
func (p *packager) relocate(ctx context.Context, built, published string) error {
	if _, err := os.Stat(published); err == nil {
		p.releaseStaleArtifact(ctx, filepath.Base(published))
	}

	if err := Relocate(built, published); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Artifact renamed", "from", built, "to", published)

	return nil
}

// Relocate moves built to published.
//
// The built file must exist; otherwise ErrMissingArtifact is returned and
// published is left as it was. A stale file at published is removed first,
// so exactly one file remains there afterwards.
func Relocate(built, published string) error {
	info, err := os.Stat(built)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrMissingArtifact, built)
	case err != nil:
		return fmt.Errorf("stat %s: %w", built, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrMissingArtifact, built)
	}

	if err = os.Remove(published); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale artifact: %w", err)
	}

	if err = os.Rename(built, published); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}

	return nil
}

// releaseStaleArtifact reports, and optionally kills, processes running the stale artifact.
func (p *packager) releaseStaleArtifact(ctx context.Context, fileName string) {
	running, err := findRunning(p.processes, fileName)
	if err != nil {
		logger.WarnKV(ctx, "Unable to list running processes", "error", err)

		return
	}

	for _, process := range running {
		if !p.cfg.TerminateRunning {
			logger.WarnKV(ctx, "Stale sidecar is still running; replacing its file may fail",
				"pid", process.Pid(), "executable", process.Executable())

			continue
		}

		logger.WarnKV(ctx, "Terminating stale sidecar", "pid", process.Pid(), "executable", process.Executable())

		if err = killProcess(process.Pid()); err != nil {
			logger.WarnKV(ctx, "Unable to terminate stale sidecar", "pid", process.Pid(), "error", err)
		}
	}
}

// findRunning returns processes other than this one whose executable is fileName.
func findRunning(list ProcessLister, fileName string) ([]ps.Process, error) {
	processList, err := list()
	if err != nil {
		return nil, err
	}

	var (
		thisProcessID = os.Getpid()
		result        []ps.Process
	)

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if matchesExecutable(process.Executable(), fileName) {
			result = append(result, process)
		}
	}

	return result, nil
}

// matchesExecutable compares a process name with a file name, allowing for Linux comm truncation.
func matchesExecutable(executable, fileName string) bool {
	if executable == "" {
		return false
	}

	if strings.EqualFold(executable, fileName) {
		return true
	}

	return len(executable) == commLength && strings.HasPrefix(fileName, executable)
}

func killProcess(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return process.Kill()
}

// record adds the published artifact to the manifest.
func (p *packager) record(ctx context.Context, result *Result) error {
	if p.repo == nil {
		return nil
	}

	current, err := p.repo.Load(ctx)

	switch {
	case errors.Is(err, manifest.ErrNotFound):
		current = manifest.New(p.cfg.BaseName)
	case err != nil:
		return fmt.Errorf("load manifest: %w", err)
	}

	checksum, err := manifest.FileChecksum(result.Path)
	if err != nil {
		return fmt.Errorf("checksum artifact: %w", err)
	}

	current.BaseName = p.cfg.BaseName
	current.Put(&manifest.Entry{
		Triple:          result.Triple.String(),
		File:            filepath.Base(result.Path),
		Checksum:        base64.StdEncoding.EncodeToString(checksum),
		Size:            result.Size,
		PackagerVersion: version.Short(),
		PublishedAt:     time.Now().UTC(),
	})

	if err = p.repo.Save(ctx, current); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	logger.DebugKV(ctx, "Manifest updated", "triple", result.Triple)

	return nil
}
