package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/genpack/internal/engine/layerstate"
	"go.trai.ch/genpack/internal/engine/reconcile"
)

func (o *Orchestrator) upper(ctx context.Context, r *run) error {
	manifest, found, err := o.store.ReadManifest(r.bc.LowerManifestPath())
	if err != nil {
		return err
	}
	if !found || r.machine.Lower() != domain.LowerReady {
		return &domain.PreconditionError{Stage: domain.StageUpper, Missing: "a lower layer with a valid " + domain.LowerManifestName}
	}

	current, err := o.upperCurrent(r, manifest)
	if err != nil {
		return err
	}
	if current {
		o.logger.Info("upper layer is up to date")
		return nil
	}

	if err := r.machine.BeginUpper(); err != nil {
		return err
	}
	r.state = r.state.InvalidateUpper()
	if err := o.saveState(r); err != nil {
		r.machine.AbortUpper()
		return err
	}

	if err := o.buildUpper(ctx, r, manifest); err != nil {
		r.machine.AbortUpper()
		return err
	}

	r.state.UpperManifestDigest = layerstate.ManifestDigest(manifest)
	r.state.UpperDigest = r.upperDigest
	r.state.UpperBuilt = o.now().UTC()
	if err := o.saveState(r); err != nil {
		return err
	}
	return r.machine.CompleteUpper()
}

func (o *Orchestrator) upperCurrent(r *run, manifest domain.OwnedFileManifest) (bool, error) {
	if r.lowerChanged {
		return false, nil
	}
	_, upperExists, err := o.scanner.ModTime(r.bc.UpperDir())
	if err != nil {
		return false, err
	}
	newest, err := o.scanner.NewestModTime(r.opts.Inputs...)
	if err != nil {
		return false, err
	}
	return layerstate.UpperCurrent(layerstate.UpperCheck{
		ManifestValid:          true,
		UpperExists:            upperExists,
		RecordedManifestDigest: r.state.UpperManifestDigest,
		CurrentManifestDigest:  layerstate.ManifestDigest(manifest),
		RecordedSpecDigest:     r.state.UpperDigest,
		CurrentSpecDigest:      r.upperDigest,
		Built:                  r.state.UpperBuilt,
		NewestInput:            newest,
	}), nil
}

func (o *Orchestrator) buildUpper(ctx context.Context, r *run, manifest domain.OwnedFileManifest) error {
	upperDir := r.bc.UpperDir()
	inUpper := ports.SandboxOptions{Upper: true}

	if err := o.step(ctx, "reconcile", func(ctx context.Context) error {
		return o.reconcileUpper(ctx, r, manifest)
	}); err != nil {
		return err
	}

	if len(r.spec.InstallPackages()) > 0 {
		o.logger.Info("copying packages into upper layer")
		if err := o.step(ctx, "copyup packages", func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, CopyupArgs(r.spec), inUpper)
		}); err != nil {
			return err
		}
	} else {
		o.logger.Warn("no packages specified")
	}

	for _, g := range r.spec.Groups {
		o.logger.Info("creating group " + g.Name)
		if err := o.step(ctx, "groupadd "+g.Name, func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, GroupAddArgs(g), inUpper)
		}); err != nil {
			return err
		}
	}
	for _, u := range r.spec.Users {
		o.logger.Info("creating user " + u.Name)
		if err := o.step(ctx, "useradd "+u.Name, func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, UserAddArgs(u), inUpper)
		}); err != nil {
			return err
		}
	}

	if err := o.copyFiles(ctx, r); err != nil {
		return err
	}
	if err := o.runLegacyBuild(ctx, r, upperDir); err != nil {
		return err
	}
	if err := o.runScripts(ctx, r); err != nil {
		return err
	}

	if len(r.spec.Services) > 0 {
		argv := append([]string{"systemctl", "enable"}, r.spec.Services...)
		if err := o.step(ctx, "enable services", func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, argv, inUpper)
		}); err != nil {
			return err
		}
	}
	return nil
}

// reconcileUpper removes every upper entry the lower layer no longer owns.
// All paths are validated before the first deletion.
func (o *Orchestrator) reconcileUpper(ctx context.Context, r *run, manifest domain.OwnedFileManifest) error {
	upperDir := r.bc.UpperDir()
	current, err := o.listUpper(ctx, upperDir)
	if err != nil {
		return err
	}
	plan, err := reconcile.Plan(current, manifest)
	if err != nil {
		return err
	}
	if len(plan) > 0 {
		o.logger.Info(fmt.Sprintf("removing %d stale entries from upper layer", len(plan)))
	}
	for _, batch := range reconcile.Batches(plan, r.opts.DeleteBatchSize) {
		args := []string{"-rf", "--"}
		for _, p := range batch {
			args = append(args, filepath.Join(upperDir, filepath.FromSlash(p)))
		}
		if err := o.executor.Run(ctx, domain.Command{Name: "rm", Args: args, Privileged: true}); err != nil {
			return err
		}
	}
	return o.executor.Run(ctx, domain.Command{Name: "mkdir", Args: []string{"-p", upperDir}, Privileged: true})
}

// listUpper lists the upper tree as root. It holds root-owned entries such
// as 0700 home directories that the invoking user cannot read.
func (o *Orchestrator) listUpper(ctx context.Context, upperDir string) ([]string, error) {
	_, exists, err := o.scanner.ModTime(upperDir)
	if err != nil || !exists {
		return nil, err
	}
	out, err := o.executor.Output(ctx, ListTreeCommand(upperDir))
	if err != nil {
		return nil, err
	}
	return ParseTree(out), nil
}

// ListTreeCommand prints every entry below root relative to it, one per line.
func ListTreeCommand(root string) domain.Command {
	return domain.Command{
		Name:       "find",
		Args:       []string{root, "-mindepth", "1", "-printf", `%P\n`},
		Privileged: true,
	}
}

// ParseTree splits find output into sorted relative paths.
func ParseTree(out []byte) []string {
	var paths []string
	for line := range strings.Lines(string(out)) {
		if p := strings.TrimSuffix(line, "\n"); p != "" {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	return paths
}

func (o *Orchestrator) copyFiles(ctx context.Context, r *run) error {
	filesDir := r.bc.FilesDir()
	_, exists, err := o.scanner.ModTime(filesDir)
	if err != nil {
		return err
	}
	if !exists {
		o.logger.Info("no files directory, skipping copy")
		return nil
	}
	o.logger.Info("copying files into upper layer")
	return o.step(ctx, "copy files", func(ctx context.Context) error {
		return o.executor.Run(ctx, domain.Command{
			Name:       "cp",
			Args:       []string{"-rdv", filesDir + "/.", r.bc.UpperDir()},
			Privileged: true,
		})
	})
}

// runLegacyBuild executes /build from the overlay once and removes it.
func (o *Orchestrator) runLegacyBuild(ctx context.Context, r *run, upperDir string) error {
	script := filepath.Join(upperDir, domain.LegacyBuildScript)
	_, exists, err := o.scanner.ModTime(script)
	if err != nil || !exists {
		return err
	}
	o.logger.Info("executing build script /" + domain.LegacyBuildScript)
	err = o.step(ctx, "legacy build script", func(ctx context.Context) error {
		return o.sandbox.Run(ctx, r.bc, []string{"/" + domain.LegacyBuildScript}, ports.SandboxOptions{Upper: true})
	})
	if err != nil {
		return err
	}
	return o.executor.Run(ctx, domain.Command{Name: "rm", Args: []string{"-f", script}, Privileged: true})
}

func (o *Orchestrator) runScripts(ctx context.Context, r *run) error {
	scripts, err := DiscoverScripts(o.scriptsFS(r.bc.ScriptsDir()))
	if err != nil {
		return err
	}
	bind := ports.Bind{Source: r.bc.ScriptsDir(), Target: domain.ScriptsMountPoint, ReadOnly: true}
	for _, s := range scripts {
		who := "root"
		if s.User != "" {
			who = s.User
		}
		o.logger.Info(fmt.Sprintf("running %s as %s", s.Path, who))
		err := o.step(ctx, "script "+s.Path, func(ctx context.Context) error {
			return o.sandbox.Run(ctx, r.bc, []string{s.ContainerPath()}, ports.SandboxOptions{
				Upper: true,
				User:  s.User,
				Binds: []ports.Bind{bind},
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}
