// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
)

// Executor runs external processes to completion.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes cmd and streams its output to the logger.
	// A non-zero exit is reported as a *domain.ExternalToolError.
	Run(ctx context.Context, cmd domain.Command) error

	// Output executes cmd and returns its standard output.
	Output(ctx context.Context, cmd domain.Command) ([]byte, error)
}
