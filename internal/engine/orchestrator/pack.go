package orchestrator

import (
	"context"
	"path/filepath"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/engine/layerstate"
)

func (o *Orchestrator) pack(ctx context.Context, r *run) error {
	_, found, err := o.store.ReadManifest(r.bc.LowerManifestPath())
	if err != nil {
		return err
	}
	if !found {
		return &domain.PreconditionError{Stage: domain.StagePack, Missing: domain.LowerManifestName}
	}
	upperDir := r.bc.UpperDir()
	_, upperExists, err := o.scanner.ModTime(upperDir)
	if err != nil {
		return err
	}
	if !upperExists {
		return &domain.PreconditionError{Stage: domain.StagePack, Missing: "the upper directory"}
	}

	outfile := OutfilePath(r.bc, r.spec)
	want := domain.PackRecord{Outfile: outfile, Compression: r.bc.Compression, UpperBuilt: r.state.UpperBuilt}
	_, outExists, err := o.scanner.ModTime(outfile)
	if err != nil {
		return err
	}
	if !r.lowerChanged && layerstate.PackCurrent(outExists, r.state.Pack, want) {
		o.logger.Info(outfile + " is up to date")
		return nil
	}

	o.logger.Info("packing " + outfile)
	if err := o.packer.Pack(ctx, upperDir, outfile, r.bc.Compression); err != nil {
		return err
	}
	r.state.Pack = &want
	return o.saveState(r)
}

// OutfilePath resolves the spec's output file against the project root.
func OutfilePath(bc domain.BuildContext, spec domain.EffectiveSpec) string {
	if filepath.IsAbs(spec.Outfile) {
		return spec.Outfile
	}
	return filepath.Join(bc.ProjectRoot, spec.Outfile)
}
