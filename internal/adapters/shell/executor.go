// Package shell provides the host process executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
	"mvdan.cc/sh/v3/syntax"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
	euid   func() int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		euid:   os.Geteuid,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes cmd to completion. Output of non-interactive commands is read
// through a pty and forwarded to the logger line by line. Interactive commands
// inherit the terminal.
func (e *Executor) Run(ctx context.Context, c domain.Command) error {
	argv := e.argv(c)
	e.logger.Info("$ " + QuoteArgv(argv))

	cmd := e.command(ctx, c, argv)
	if c.Interactive {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = e.stdin, e.stdout, e.stderr
		return toolError(c, cmd.Run())
	}

	out := &logWriter{logger: e.logger, level: "info"}
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return toolError(c, err)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = out.Close() }()
		// Reading the pty fails with EIO once the child exits.
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return toolError(c, err)
}

// Output executes cmd and returns its standard output. Standard error is
// forwarded to the logger.
func (e *Executor) Output(ctx context.Context, c domain.Command) ([]byte, error) {
	argv := e.argv(c)
	cmd := e.command(ctx, c, argv)

	var stdout bytes.Buffer
	stderr := &logWriter{logger: e.logger, level: "error"}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	_ = stderr.Close()
	if err != nil {
		return nil, toolError(c, err)
	}
	return stdout.Bytes(), nil
}

func (e *Executor) command(ctx context.Context, c domain.Command, argv []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv is built by the orchestrator
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	return cmd
}

// argv prefixes privileged commands with sudo unless running as root. sudo
// resets the environment, so extra variables are passed through env(1).
func (e *Executor) argv(c domain.Command) []string {
	if !c.Privileged || e.euid() == 0 {
		return c.Argv()
	}
	argv := []string{"sudo"}
	if len(c.Env) > 0 {
		argv = append(argv, "env")
		argv = append(argv, c.Env...)
	}
	return append(argv, c.Argv()...)
}

func toolError(c domain.Command, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &domain.ExternalToolError{Command: c.Name, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &domain.ExternalToolError{Command: c.Name, ExitCode: -1, Err: err}
}

// QuoteArgv renders argv as a line a POSIX shell would split back into argv.
func QuoteArgv(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			q = arg
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}
