// Package orchestrator drives the lower, upper and pack stages of one variant.
package orchestrator

import (
	"context"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/genpack/internal/engine/layerstate"
	"go.trai.ch/zerr"
)

// DefaultDeleteBatchSize bounds the number of paths passed to one rm invocation.
const DefaultDeleteBatchSize = 256

// BuildOptions carries per-invocation settings that are not part of the spec.
type BuildOptions struct {
	// Inputs are the tracked local configuration inputs: the manifest file,
	// files/, build.d/ and the mixin cache. Missing paths are ignored.
	Inputs []string
	// OverlaySource is the git URL of the genpack overlay.
	OverlaySource string
	// DeleteBatchSize bounds each reconciliation rm invocation.
	DeleteBatchSize int
}

// Orchestrator sequences the build stages and delegates every filesystem
// mutation to external tools.
type Orchestrator struct {
	sandbox  ports.Sandbox
	image    ports.ImageProvisioner
	packer   ports.Packer
	upstream ports.Upstream
	store    ports.StateStore
	scanner  ports.FileScanner
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger

	now       func() time.Time
	scriptsFS func(dir string) fs.FS
}

// New creates an Orchestrator with the given dependencies.
func New(
	sandbox ports.Sandbox,
	image ports.ImageProvisioner,
	packer ports.Packer,
	upstream ports.Upstream,
	store ports.StateStore,
	scanner ports.FileScanner,
	executor ports.Executor,
	tracer ports.Tracer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		sandbox:   sandbox,
		image:     image,
		packer:    packer,
		upstream:  upstream,
		store:     store,
		scanner:   scanner,
		executor:  executor,
		tracer:    tracer,
		logger:    logger,
		now:       time.Now,
		scriptsFS: os.DirFS,
	}
}

// run carries the mutable state of one invocation.
type run struct {
	bc      domain.BuildContext
	spec    domain.EffectiveSpec
	opts    BuildOptions
	state   domain.LayerState
	machine *layerstate.Machine

	lowerDigest  string
	upperDigest  string
	lowerChanged bool
}

// Run executes the requested stages in order. Every stage re-derives its
// verdict from persisted records, so an interrupted run can simply be repeated.
func (o *Orchestrator) Run(
	ctx context.Context,
	stages domain.StageSet,
	bc domain.BuildContext,
	spec domain.EffectiveSpec,
	opts BuildOptions,
) error {
	if opts.DeleteBatchSize <= 0 {
		opts.DeleteBatchSize = DefaultDeleteBatchSize
	}

	r, err := o.prepare(bc, spec, opts)
	if err != nil {
		return zerr.With(err, "variant", bc.Variant.String())
	}

	var planned []string
	for _, st := range []domain.Stage{domain.StageLower, domain.StageUpper, domain.StagePack} {
		if stages.Has(st) {
			planned = append(planned, st.String())
		}
	}
	o.tracer.EmitPlan(ctx, planned)

	steps := []struct {
		stage domain.Stage
		fn    func(context.Context, *run) error
	}{
		{domain.StageLower, o.lower},
		{domain.StageUpper, o.upper},
		{domain.StagePack, o.pack},
	}
	for _, s := range steps {
		if !stages.Has(s.stage) {
			continue
		}
		if err := o.stage(ctx, s.stage, r, s.fn); err != nil {
			return zerr.With(zerr.With(err, "stage", s.stage.String()), "variant", bc.Variant.String())
		}
	}
	return nil
}

func (o *Orchestrator) stage(ctx context.Context, st domain.Stage, r *run, fn func(context.Context, *run) error) error {
	ctx, span := o.tracer.Start(ctx, st.String(), ports.AsStage())
	defer span.End()
	span.SetAttribute("genpack.variant", r.bc.Variant.String())
	span.SetAttribute("genpack.arch", r.bc.Arch)

	if err := fn(ctx, r); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// step runs fn inside a child span.
func (o *Orchestrator) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// prepare loads the persisted records and observes whether the lower layer
// is currently ready.
func (o *Orchestrator) prepare(bc domain.BuildContext, spec domain.EffectiveSpec, opts BuildOptions) (*run, error) {
	state, err := o.store.LoadLayerState(bc.StatePath())
	if err != nil {
		return nil, err
	}
	lowerDigest, err := layerstate.LowerDigest(spec)
	if err != nil {
		return nil, err
	}
	upperDigest, err := layerstate.UpperDigest(spec)
	if err != nil {
		return nil, err
	}

	r := &run{
		bc:          bc,
		spec:        spec,
		opts:        opts,
		state:       state,
		lowerDigest: lowerDigest,
		upperDigest: upperDigest,
	}

	ready, err := o.lowerReady(r)
	if err != nil {
		return nil, err
	}
	r.machine = layerstate.NewMachine(ready, false)
	return r, nil
}

// lowerReady reports whether the image exists and lower.files is valid.
func (o *Orchestrator) lowerReady(r *run) (bool, error) {
	_, imageExists, err := o.scanner.ModTime(r.bc.LowerImagePath())
	if err != nil || !imageExists {
		return false, err
	}
	check, err := o.manifestCheck(r)
	if err != nil {
		return false, err
	}
	return layerstate.ManifestValid(check), nil
}

func (o *Orchestrator) manifestCheck(r *run) (layerstate.ManifestCheck, error) {
	modTime, exists, err := o.scanner.ModTime(r.bc.LowerManifestPath())
	if err != nil {
		return layerstate.ManifestCheck{}, err
	}
	newest, err := o.scanner.NewestModTime(r.opts.Inputs...)
	if err != nil {
		return layerstate.ManifestCheck{}, err
	}
	return layerstate.ManifestCheck{
		LowerChanged:   r.lowerChanged,
		Exists:         exists,
		ModTime:        modTime,
		NewestInput:    newest,
		RecordedDigest: r.state.LowerDigest,
		CurrentDigest:  r.lowerDigest,
	}, nil
}

func (o *Orchestrator) saveState(r *run) error {
	return o.store.SaveLayerState(r.bc.StatePath(), r.state)
}
