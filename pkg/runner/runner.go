// Package runner executes external processes and resolves executables on PATH.
//
// Every package manager, git, ssh-keygen and agent invocation goes through the
// Runner interface so the rest of gitboot can be exercised with canned results.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// Runner runs one external command to completion.
//
// A non-zero exit is reported through CommandResult.ExitCode with a nil error;
// the error is reserved for processes that could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd types.Command) (types.CommandResult, error)
}

// Lookup resolves executables on the search path.
type Lookup interface {
	LookPath(name string) (string, error)
}

// Available reports whether name resolves on the search path.
func Available(l Lookup, name string) bool {
	if name == "" {
		return false
	}
	_, err := l.LookPath(name)
	return err == nil
}

// PathLookup resolves executables with exec.LookPath.
type PathLookup struct{}

// LookPath implements Lookup.
func (PathLookup) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

const waitDelay = 2 * time.Second

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger  zerolog.Logger
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewExecRunner creates a runner. A zero timeout lets commands run until
// they exit.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		logger:  logging.GetLogger("runner"),
		timeout: timeout,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c types.Command) (types.CommandResult, error) {
	if c.Name() == "" {
		return types.CommandResult{ExitCode: -1}, fmt.Errorf("empty command")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logging.LogCommand(c.Name(), c.Args())
	start := time.Now()

	cmd := exec.CommandContext(ctx, c.Name(), c.Args()...)
	// Children that keep our pipes open must not outlive a cancelled run
	cmd.WaitDelay = waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	if c.Interactive {
		cmd.Stdin = r.stdin
		cmd.Stdout = io.MultiWriter(r.stdout, &stdout)
		cmd.Stderr = io.MultiWriter(r.stderr, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := types.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			result.ExitCode = -1
			return result, fmt.Errorf("%s timed out after %v: %w", c.Name(), time.Since(start), ctx.Err())
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			result.ExitCode = -1
			r.logger.Debug().Err(err).Str("command", c.String()).Msg("Command could not be started")
			return result, fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
	}

	r.logger.Debug().
		Str("command", c.String()).
		Int("exitCode", result.ExitCode).
		Dur("duration", time.Since(start)).
		Int("stdoutBytes", len(result.Stdout)).
		Int("stderrBytes", len(result.Stderr)).
		Msg("Command finished")

	if !result.Success() && result.StderrString() != "" {
		r.logger.Debug().Str("stderr", result.StderrString()).Msg("Command stderr")
	}

	return result, nil
}
