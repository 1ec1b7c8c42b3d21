package app

import (
	"context"

	"go.trai.ch/genpack/internal/adapters/detector"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
)

// SetHostForTest fixes the working directory, architecture and effective uid.
func (a *App) SetHostForTest(cwd, goarch string, euid int) {
	a.cwd = func() (string, error) { return cwd, nil }
	a.goarch = goarch
	a.euid = func() int { return euid }
}

// SetRemotesForTest replaces the per-run upstream client and mixin fetcher.
func (a *App) SetRemotesForTest(up ports.Upstream, fetcher ports.MixinFetcher) {
	a.newUpstream = func(domain.Settings) ports.Upstream { return up }
	a.newFetcher = func(domain.Settings) ports.MixinFetcher { return fetcher }
}

// SetTracerForTest replaces the per-run tracer.
func (a *App) SetTracerForTest(tracer ports.Tracer) {
	a.newTracer = func(detector.LogFormat) (ports.Tracer, func(context.Context) error) {
		return tracer, func(context.Context) error { return nil }
	}
}

// FetchMixins exposes concurrent mixin fetching.
var FetchMixins = fetchMixins
