package ports

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
)

// ImageFile is a file written into the lower image, relative to its root.
type ImageFile struct {
	Path    string
	Content []byte
}

// ImageProvisioner creates and patches lower layer images.
//
//go:generate go run go.uber.org/mock/mockgen -source=image.go -destination=mocks/mock_image.go -package=mocks
type ImageProvisioner interface {
	// Create builds a fresh image from the downloaded stage3 and portage archives.
	// A partially built image is removed before the error is returned.
	Create(ctx context.Context, bc domain.BuildContext, capacityMiB int64) error

	// ReplacePortage swaps the portage tree inside an existing image.
	ReplacePortage(ctx context.Context, bc domain.BuildContext) error

	// SetProfile selects the newest matching gentoo profile.
	SetProfile(ctx context.Context, bc domain.BuildContext, profile string) error

	// SyncOverlay clones or updates the genpack overlay repository.
	SyncOverlay(ctx context.Context, bc domain.BuildContext, source string) error

	// InstallFiles writes files into the image, replacing existing ones.
	InstallFiles(ctx context.Context, bc domain.BuildContext, files []ImageFile) error

	// Remove discards the image so the next run starts from scratch.
	Remove(ctx context.Context, bc domain.BuildContext) error
}
