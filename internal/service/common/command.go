//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/oshokin/universe-sidecar/internal/logger"
)

// Command describes one external process invocation.
type Command struct {
	// Dir is the working directory; empty means the current one.
	Dir string
	// Name is the executable, looked up in PATH.
	Name string
	// Args are passed verbatim.
	Args []string
	// Env is appended to the inherited environment.
	Env []string
}

// Runner executes external commands. Both methods block until the process exits.
type Runner interface {
	// Run executes the command and streams its output to the log.
	Run(ctx context.Context, cmd *Command) error
	// Output executes the command and returns its standard output.
	Output(ctx context.Context, cmd *Command) (string, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// NewCommand builds a Command from already split words.
func NewCommand(dir string, words ...string) *Command {
	if len(words) == 0 {
		return &Command{Dir: dir}
	}

	return &Command{
		Dir:  dir,
		Name: words[0],
		Args: append([]string(nil), words[1:]...),
	}
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run executes cmd, forwarding stdout at info and stderr at warning level.
func (ExecRunner) Run(ctx context.Context, cmd *Command) error {
	process := newProcess(ctx, cmd)

	stdout := newLineWriter(func(line string) { logger.InfoKV(ctx, line, "stream", "stdout") })
	stderr := newLineWriter(func(line string) { logger.WarnKV(ctx, line, "stream", "stderr") })

	process.Stdout = stdout
	process.Stderr = stderr

	logger.InfoKV(ctx, "Running command", "command", cmd.String(), "dir", cmd.Dir)

	err := process.Run()

	stdout.Flush()
	stderr.Flush()

	if err != nil {
		return fmt.Errorf("run %s: %w", cmd.Name, err)
	}

	return nil
}

// Output executes cmd and captures standard output. Standard error is logged.
func (ExecRunner) Output(ctx context.Context, cmd *Command) (string, error) {
	process := newProcess(ctx, cmd)

	var stdout bytes.Buffer

	stderr := newLineWriter(func(line string) { logger.DebugKV(ctx, line, "stream", "stderr") })

	process.Stdout = &stdout
	process.Stderr = stderr

	logger.DebugKV(ctx, "Querying command", "command", cmd.String(), "dir", cmd.Dir)

	err := process.Run()

	stderr.Flush()

	if err != nil {
		return stdout.String(), fmt.Errorf("run %s: %w", cmd.Name, err)
	}

	return stdout.String(), nil
}

func newProcess(ctx context.Context, cmd *Command) *exec.Cmd {
	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir

	if len(cmd.Env) > 0 {
		process.Env = append(os.Environ(), cmd.Env...)
	}

	return process
}

// lineWriter splits a byte stream into lines and hands each non-empty one to emit.
type lineWriter struct {
	// emit receives every complete line without its terminator.
	emit func(line string)
	// pending holds a trailing partial line.
	pending []byte
	// mu guards pending; exec may write from two goroutines when stdout and stderr share a writer.
	mu sync.Mutex
}

func newLineWriter(emit func(line string)) *lineWriter {
	return &lineWriter{emit: emit}
}

// Write implements io.Writer.
func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)

	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			break
		}

		w.emitLine(w.pending[:idx])
		w.pending = w.pending[idx+1:]
	}

	return len(p), nil
}

// Flush emits whatever partial line is left.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.emitLine(w.pending)
	w.pending = nil
}

func (w *lineWriter) emitLine(line []byte) {
	text := strings.TrimRight(string(line), "\r")
	if strings.TrimSpace(text) == "" {
		return
	}

	w.emit(text)
}
