package ports

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
)

// Bind is a host path mounted into the container.
type Bind struct {
	Source   string
	Target   string
	ReadOnly bool
}

// SandboxOptions tune a single container invocation.
type SandboxOptions struct {
	// Upper overlays the variant's upper directory on top of the lower image.
	Upper bool
	// User runs the command as this user instead of root.
	User string
	// Binds are extra mounts on top of the package cache.
	Binds []Bind
	// Env holds extra "KEY=VALUE" entries for the command.
	Env []string
	// Interactive attaches the container to the terminal.
	Interactive bool
}

// Sandbox runs commands inside the variant's lower image.
//
//go:generate go run go.uber.org/mock/mockgen -source=sandbox.go -destination=mocks/mock_sandbox.go -package=mocks
type Sandbox interface {
	// Run executes argv in the container and waits for it to exit.
	Run(ctx context.Context, bc domain.BuildContext, argv []string, opts SandboxOptions) error

	// Output executes argv in the container and returns its standard output.
	Output(ctx context.Context, bc domain.BuildContext, argv []string, opts SandboxOptions) ([]byte, error)
}
