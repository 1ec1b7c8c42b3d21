package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/genpack/internal/engine/layerstate"
	"go.trai.ch/zerr"
)

func (o *Orchestrator) lower(ctx context.Context, r *run) error {
	current, err := o.refreshUpstream(ctx, r.bc)
	if err != nil {
		return err
	}

	_, imageExists, err := o.scanner.ModTime(r.bc.LowerImagePath())
	if err != nil {
		return err
	}
	verdict := layerstate.DecideLower(imageExists, r.state.Lower, current)
	o.logger.Info(fmt.Sprintf("lower layer verdict for %s: %s", r.bc.Variant, verdict))

	if verdict == domain.VerdictReuse && r.machine.Lower() == domain.LowerReady {
		o.logger.Info("lower layer is up to date")
		return nil
	}

	if err := r.machine.BeginLower(); err != nil {
		return err
	}
	if err := o.invalidateLower(r, verdict); err != nil {
		r.machine.AbortLower()
		return err
	}

	if err := o.buildLower(ctx, r, verdict); err != nil {
		r.machine.AbortLower()
		if verdict == domain.VerdictFullRebuild {
			if rmErr := o.image.Remove(ctx, r.bc); rmErr != nil {
				o.logger.Error(zerr.Wrap(rmErr, "failed to discard partial lower image"))
			}
		}
		return err
	}

	r.state.Lower = current
	r.state.LowerDigest = r.lowerDigest
	if err := o.saveState(r); err != nil {
		return err
	}
	r.lowerChanged = true
	return r.machine.CompleteLower()
}

// invalidateLower removes the ready marker and the records that a partial
// build could otherwise satisfy.
func (o *Orchestrator) invalidateLower(r *run, verdict domain.LowerVerdict) error {
	if err := o.store.RemoveManifest(r.bc.LowerManifestPath()); err != nil {
		return err
	}
	switch verdict {
	case domain.VerdictFullRebuild:
		r.state.Lower = domain.UpstreamFingerprints{}
	case domain.VerdictInPlacePatch:
		r.state.Lower.Portage = ""
	}
	r.state.LowerDigest = ""
	r.state = r.state.InvalidateUpper()
	return o.saveState(r)
}

func (o *Orchestrator) buildLower(ctx context.Context, r *run, verdict domain.LowerVerdict) error {
	switch verdict {
	case domain.VerdictFullRebuild:
		o.logger.Info("creating lower image")
		err := o.step(ctx, "create lower image", func(ctx context.Context) error {
			return o.image.Create(ctx, r.bc, r.spec.LowerLayerCapacity)
		})
		if err != nil {
			return err
		}
		if r.spec.GentooProfile != "" {
			err := o.step(ctx, "set profile", func(ctx context.Context) error {
				return o.image.SetProfile(ctx, r.bc, r.spec.GentooProfile)
			})
			if err != nil {
				return err
			}
		}
	case domain.VerdictInPlacePatch:
		o.logger.Info("replacing portage tree in lower image")
		err := o.step(ctx, "replace portage", func(ctx context.Context) error {
			return o.image.ReplacePortage(ctx, r.bc)
		})
		if err != nil {
			return err
		}
	}
	return o.provisionLower(ctx, r)
}

// provisionLower brings the lower image in line with the spec and captures
// the owned-file manifest.
func (o *Orchestrator) provisionLower(ctx context.Context, r *run) error {
	err := o.step(ctx, "sync overlay", func(ctx context.Context) error {
		return o.image.SyncOverlay(ctx, r.bc, r.opts.OverlaySource)
	})
	if err != nil {
		return err
	}
	err = o.step(ctx, "apply portage flags", func(ctx context.Context) error {
		return o.image.InstallFiles(ctx, r.bc, FlagFiles(r.spec))
	})
	if err != nil {
		return err
	}

	for _, s := range ProvisionSteps(r.spec) {
		o.logger.Info(s.Name)
		err := o.step(ctx, s.Name, func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, s.Argv, ports.SandboxOptions{Env: s.Env})
		})
		if err != nil {
			return err
		}
	}

	var listing []byte
	err = o.step(ctx, "list owned files", func(ctx context.Context) error {
		var err error
		listing, err = o.sandbox.Output(ctx, r.bc, CopyupListArgs(r.spec), ports.SandboxOptions{})
		return err
	})
	if err != nil {
		return err
	}
	manifest, err := ParseListing(listing)
	if err != nil {
		return err
	}
	o.logger.Info(fmt.Sprintf("lower layer owns %d paths", manifest.Len()))
	return o.store.WriteManifest(r.bc.LowerManifestPath(), manifest)
}

// ParseListing turns copyup-packages --list output into a manifest. Paths
// are reported absolute inside the container and stored relative.
func ParseListing(out []byte) (domain.OwnedFileManifest, error) {
	var paths []string
	for line := range strings.Lines(string(out)) {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}
		paths = append(paths, strings.TrimLeft(p, "/"))
	}
	return domain.NewOwnedFileManifest(paths)
}

// refreshUpstream fetches the current upstream fingerprints and downloads
// whichever archive changed since its last download.
func (o *Orchestrator) refreshUpstream(ctx context.Context, bc domain.BuildContext) (domain.UpstreamFingerprints, error) {
	var fps domain.UpstreamFingerprints
	err := o.step(ctx, "check upstream", func(ctx context.Context) error {
		stage3URL, err := o.upstream.Stage3URL(ctx, bc.Arch)
		if err != nil {
			return err
		}
		fps.Stage3, err = o.refreshArchive(ctx, stage3URL, bc.Stage3Path(), bc.Stage3RecordPath())
		if err != nil {
			return err
		}
		fps.Portage, err = o.refreshArchive(ctx, o.upstream.PortageURL(), bc.PortagePath(), bc.PortageRecordPath())
		return err
	})
	return fps, err
}

func (o *Orchestrator) refreshArchive(ctx context.Context, url, dest, record string) (domain.Fingerprint, error) {
	remote, err := o.upstream.Head(ctx, url)
	if err != nil {
		return "", err
	}
	recorded, err := o.store.ReadFingerprint(record)
	if err != nil {
		return "", err
	}
	_, exists, err := o.scanner.ModTime(dest)
	if err != nil {
		return "", err
	}
	if exists && recorded == remote {
		return recorded, nil
	}

	o.logger.Info("downloading " + url)
	fp, err := o.upstream.Download(ctx, url, dest)
	if err != nil {
		return "", err
	}
	if err := o.store.WriteFingerprint(record, fp); err != nil {
		return "", err
	}
	return fp, nil
}
