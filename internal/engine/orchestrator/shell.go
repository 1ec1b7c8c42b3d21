package orchestrator

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
)

// Shell opens an interactive bash in the lower container, or in the upper
// overlay when upper is set. The portage flag files are refreshed first so
// the shell sees the current spec.
func (o *Orchestrator) Shell(ctx context.Context, bc domain.BuildContext, spec domain.EffectiveSpec, upper bool) error {
	stage := domain.StageLower
	if upper {
		stage = domain.StageUpper
	}

	_, imageExists, err := o.scanner.ModTime(bc.LowerImagePath())
	if err != nil {
		return err
	}
	if !imageExists {
		return &domain.PreconditionError{Stage: stage, Missing: "a lower image"}
	}
	if upper {
		_, upperExists, err := o.scanner.ModTime(bc.UpperDir())
		if err != nil {
			return err
		}
		if !upperExists {
			return &domain.PreconditionError{Stage: stage, Missing: "the upper directory"}
		}
	}

	if err := o.image.InstallFiles(ctx, bc, FlagFiles(spec)); err != nil {
		return err
	}
	o.logger.Info("starting bash in the " + stage.String() + " container")
	return o.sandbox.Run(ctx, bc, []string{"bash"}, ports.SandboxOptions{Upper: upper, Interactive: true})
}
