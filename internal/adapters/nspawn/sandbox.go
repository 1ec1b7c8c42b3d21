// Package nspawn runs commands inside the lower image with systemd-nspawn.
package nspawn

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
)

const (
	binary = "systemd-nspawn"

	cacheMountPoint = "/var/cache"

	lowerCapabilities = "CAP_MKNOD,CAP_SYS_ADMIN"
	upperCapabilities = "CAP_MKNOD"
)

var _ ports.Sandbox = (*Sandbox)(nil)

// Sandbox implements ports.Sandbox. The lower image is booted read-write for
// provisioning; with Upper set, the variant's upper directory is overlaid on
// top so that every change lands there instead.
type Sandbox struct {
	executor ports.Executor
	// MachineName identifies the container to systemd-machined.
	MachineName string
}

// NewSandbox creates a Sandbox named after the current process.
func NewSandbox(executor ports.Executor) *Sandbox {
	return &Sandbox{
		executor:    executor,
		MachineName: fmt.Sprintf("genpack-%d", os.Getpid()),
	}
}

// Run executes argv in the container and waits for it to exit.
func (s *Sandbox) Run(ctx context.Context, bc domain.BuildContext, argv []string, opts ports.SandboxOptions) error {
	return s.executor.Run(ctx, s.command(bc, argv, opts))
}

// Output executes argv in the container and returns its standard output.
func (s *Sandbox) Output(ctx context.Context, bc domain.BuildContext, argv []string, opts ports.SandboxOptions) ([]byte, error) {
	opts.Interactive = false
	return s.executor.Output(ctx, s.command(bc, argv, opts))
}

func (s *Sandbox) command(bc domain.BuildContext, argv []string, opts ports.SandboxOptions) domain.Command {
	return domain.Command{
		Name:        binary,
		Args:        s.Args(bc, argv, opts),
		Privileged:  true,
		Interactive: opts.Interactive,
	}
}

// Args returns the systemd-nspawn arguments running argv.
func (s *Sandbox) Args(bc domain.BuildContext, argv []string, opts ports.SandboxOptions) []string {
	args := []string{
		"-q",
		"--suppress-sync=true",
		"-M", s.MachineName,
		"--image=" + absolute(bc.LowerImagePath()),
	}

	caps := lowerCapabilities
	if opts.Upper {
		args = append(args, "--overlay=+/:"+EscapeColon(absolute(bc.UpperDir()))+":/")
		caps = upperCapabilities
	}
	args = append(args,
		"--bind="+EscapeColon(absolute(bc.CacheDir()))+":"+cacheMountPoint,
		"--capability="+caps,
	)

	for _, b := range opts.Binds {
		flag := "--bind="
		if b.ReadOnly {
			flag = "--bind-ro="
		}
		args = append(args, flag+EscapeColon(absolute(b.Source))+":"+EscapeColon(b.Target))
	}
	if opts.User != "" {
		args = append(args, "--user="+opts.User)
	}
	for _, kv := range opts.Env {
		args = append(args, "--setenv="+kv)
	}
	if opts.Interactive {
		args = append(args, "--console=interactive")
	} else {
		args = append(args, "--console=pipe")
	}

	args = append(args, "--")
	return append(args, argv...)
}

// EscapeColon escapes the colons systemd-nspawn uses to split mount specifications.
func EscapeColon(s string) string {
	return strings.ReplaceAll(s, ":", `\:`)
}

func absolute(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
