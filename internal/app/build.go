package app

import (
	"context"
	"errors"

	"go.trai.ch/genpack/internal/adapters/fs"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// Build runs the requested stages for the selected variant.
func (a *App) Build(ctx context.Context, stages domain.StageSet, opts Options) (err error) {
	s, err := a.resolve(ctx, opts)
	if err != nil {
		return err
	}
	if err := EnsureProjectFiles(s.project.Root, a.logger); err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	orch, shutdown, err := a.orchestrator(s)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, shutdown(context.WithoutCancel(ctx)))
	}()

	if err := orch.Run(ctx, stages, s.bc, s.spec, a.buildOptions(s)); err != nil {
		return zerr.Wrap(err, "build failed")
	}
	if stages.Has(domain.StagePack) {
		a.logger.Info("wrote " + orchestrator.OutfilePath(s.bc, s.spec))
	}
	return nil
}

// Shell opens an interactive bash in the lower container, or in the upper
// overlay when upper is set.
func (a *App) Shell(ctx context.Context, upper bool, opts Options) (err error) {
	s, err := a.resolve(ctx, opts)
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	orch, shutdown, err := a.orchestrator(s)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, shutdown(context.WithoutCancel(ctx)))
	}()
	return orch.Shell(ctx, s.bc, s.spec, upper)
}

// authenticate primes sudo once so later privileged commands do not prompt
// in the middle of streamed output.
func (a *App) authenticate(ctx context.Context) error {
	if a.euid() == 0 {
		return nil
	}
	return a.executor.Run(ctx, domain.Command{Name: "sudo", Args: []string{"-v"}, Interactive: true})
}

func (a *App) orchestrator(s *session) (*orchestrator.Orchestrator, func(context.Context) error, error) {
	scanner, err := fs.NewScanner(a.walker, s.settings.TrackIgnore)
	if err != nil {
		return nil, nil, err
	}
	tracer, shutdown := a.newTracer(s.format)
	orch := orchestrator.New(
		a.sandbox,
		a.image,
		a.packer,
		a.newUpstream(s.settings),
		a.store,
		scanner,
		a.executor,
		tracer,
		a.logger,
	)
	return orch, shutdown, nil
}

func (a *App) buildOptions(s *session) orchestrator.BuildOptions {
	return orchestrator.BuildOptions{
		Inputs:          Inputs(s.project, s.bc),
		OverlaySource:   s.settings.OverlaySource,
		DeleteBatchSize: s.settings.DeleteBatchSize,
	}
}

// Inputs lists the local paths whose modification invalidates lower.files.
func Inputs(project *domain.Project, bc domain.BuildContext) []string {
	return []string{
		project.ManifestPath,
		bc.FilesDir(),
		bc.ScriptsDir(),
		bc.MixinCacheDir(),
	}
}
