package ports

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
)

// Upstream resolves and downloads base artifacts from the distribution mirror.
//
//go:generate go run go.uber.org/mock/mockgen -source=upstream.go -destination=mocks/mock_upstream.go -package=mocks
type Upstream interface {
	// Stage3URL returns the URL of the latest stage3 archive for arch.
	Stage3URL(ctx context.Context, arch string) (string, error)

	// PortageURL returns the URL of the latest portage snapshot.
	PortageURL() string

	// Head fetches the artifact's metadata fingerprint.
	Head(ctx context.Context, url string) (domain.Fingerprint, error)

	// Download stores the artifact at dest and returns the fingerprint of what was fetched.
	Download(ctx context.Context, url, dest string) (domain.Fingerprint, error)
}

// MixinFetcher resolves mixin locators into fragments.
type MixinFetcher interface {
	// Fetch returns the fragment at locator, falling back to the cached copy
	// with a warning when the source is unreachable.
	Fetch(ctx context.Context, bc domain.BuildContext, locator string) (domain.Fragment, error)
}
