package ports

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
)

// Packer compresses a directory tree into the output image.
//
//go:generate go run go.uber.org/mock/mockgen -source=packer.go -destination=mocks/mock_packer.go -package=mocks
type Packer interface {
	// Pack writes src to dst using compression c.
	Pack(ctx context.Context, src, dst string, c domain.Compression) error
}
