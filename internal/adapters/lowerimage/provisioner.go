// Package lowerimage creates and patches the XFS image holding a variant's
// lower layer.
package lowerimage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	portageDir = "var/db/repos/gentoo"
	overlayDir = "var/db/repos/genpack-overlay"
	reposConf  = "etc/portage/repos.conf/genpack-overlay.conf"

	mib = 1024 * 1024
)

// ReposConf registers the genpack overlay with portage.
const ReposConf = "[genpack-overlay]\nlocation=/" + overlayDir + "\n"

var _ ports.ImageProvisioner = (*Provisioner)(nil)

// Provisioner implements ports.ImageProvisioner. The image is loop-mounted
// on the host for every operation and unmounted before the call returns.
type Provisioner struct {
	executor ports.Executor
	logger   ports.Logger

	// MountDir creates an empty directory to mount the image on.
	MountDir func() (string, error)
	// Now stamps retired portage trees.
	Now func() time.Time
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(executor ports.Executor, logger ports.Logger) *Provisioner {
	return &Provisioner{
		executor: executor,
		logger:   logger,
		MountDir: func() (string, error) { return os.MkdirTemp("", "genpack_mount_") },
		Now:      time.Now,
	}
}

// Create builds a sparse image of capacityMiB, formats it and extracts the
// stage3 and portage archives into it.
func (p *Provisioner) Create(ctx context.Context, bc domain.BuildContext, capacityMiB int64) (err error) {
	image := bc.LowerImagePath()
	if err := createSparse(image, capacityMiB); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(image)
		}
	}()

	if err := p.run(ctx, "mkfs.xfs", false, "-q", image); err != nil {
		return err
	}
	return p.withMount(ctx, bc, func(mnt string) error {
		if err := p.run(ctx, "tar", true, "xpf", bc.Stage3Path(), "-C", mnt); err != nil {
			return err
		}
		return p.extractPortage(ctx, bc, mnt)
	})
}

// ReplacePortage retires the image's portage tree under a timestamped name
// and extracts the current snapshot in its place.
func (p *Provisioner) ReplacePortage(ctx context.Context, bc domain.BuildContext) error {
	return p.withMount(ctx, bc, func(mnt string) error {
		dir := filepath.Join(mnt, portageDir)
		if _, err := os.Stat(dir); err == nil {
			retired := dir + ".old-" + p.Now().Format("20060102-150405")
			p.logger.Info("retiring portage tree as " + filepath.Base(retired))
			if err := p.run(ctx, "mv", true, dir, retired); err != nil {
				return err
			}
		}
		return p.extractPortage(ctx, bc, mnt)
	})
}

// SetProfile selects profile from the newest release of the image's portage tree.
func (p *Provisioner) SetProfile(ctx context.Context, bc domain.BuildContext, profile string) error {
	return p.withMount(ctx, bc, func(mnt string) error {
		name, err := ResolveProfile(os.DirFS(mnt), bc.Arch, profile)
		if err != nil {
			return err
		}
		p.logger.Info("setting gentoo profile to " + name)
		return p.run(ctx, "chroot", true, mnt, "eselect", "profile", "set", name)
	})
}

// SyncOverlay clones the overlay repository on first use and pulls it afterwards.
func (p *Provisioner) SyncOverlay(ctx context.Context, bc domain.BuildContext, source string) error {
	return p.withMount(ctx, bc, func(mnt string) error {
		dir := filepath.Join(mnt, overlayDir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := p.run(ctx, "git", true, "-C", dir, "pull"); err != nil {
				return err
			}
		} else {
			p.logger.Info("cloning " + source)
			if err := p.run(ctx, "git", true, "clone", source, dir); err != nil {
				return err
			}
		}

		if _, err := os.Stat(filepath.Join(mnt, reposConf)); err == nil {
			return nil
		}
		return p.install(ctx, mnt, ports.ImageFile{Path: reposConf, Content: []byte(ReposConf)})
	})
}

// InstallFiles writes files into the image, replacing existing ones.
func (p *Provisioner) InstallFiles(ctx context.Context, bc domain.BuildContext, files []ports.ImageFile) error {
	if len(files) == 0 {
		return nil
	}
	return p.withMount(ctx, bc, func(mnt string) error {
		for _, f := range files {
			if err := p.install(ctx, mnt, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes the image. A missing image is not an error.
func (p *Provisioner) Remove(_ context.Context, bc domain.BuildContext) error {
	if err := os.Remove(bc.LowerImagePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove lower image"), "path", bc.LowerImagePath())
	}
	return nil
}

func (p *Provisioner) extractPortage(ctx context.Context, bc domain.BuildContext, mnt string) error {
	dir := filepath.Join(mnt, portageDir)
	if err := p.run(ctx, "mkdir", true, "-p", dir); err != nil {
		return err
	}
	return p.run(ctx, "tar", true, "xpf", bc.PortagePath(), "-C", dir, "--strip-components=1")
}

// install stages f on the host and copies it into place as root.
func (p *Provisioner) install(ctx context.Context, mnt string, f ports.ImageFile) error {
	rel, err := domain.NormalizeRelPath(f.Path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp("", "genpack-file-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(f.Content); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", f.Path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", f.Path)
	}
	mode := strconv.FormatUint(uint64(domain.FilePerm), 8)
	return p.run(ctx, "install", true, "-D", "-m", mode, tmp.Name(), filepath.Join(mnt, rel))
}

// withMount loop-mounts the image for the duration of fn.
func (p *Provisioner) withMount(ctx context.Context, bc domain.BuildContext, fn func(mnt string) error) (err error) {
	mnt, err := p.MountDir()
	if err != nil {
		return zerr.Wrap(err, "failed to create mount point")
	}
	defer func() {
		if rmErr := os.Remove(mnt); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = errors.Join(err, zerr.With(zerr.Wrap(rmErr, "failed to remove mount point"), "path", mnt))
		}
	}()

	if err := p.run(ctx, "mount", true, bc.LowerImagePath(), mnt); err != nil {
		return err
	}
	defer func() {
		// The image must be released even when ctx is cancelled.
		if umountErr := p.run(context.WithoutCancel(ctx), "umount", true, mnt); umountErr != nil {
			err = errors.Join(err, umountErr)
		}
	}()
	return fn(mnt)
}

func (p *Provisioner) run(ctx context.Context, name string, privileged bool, args ...string) error {
	return p.executor.Run(ctx, domain.Command{Name: name, Args: args, Privileged: privileged})
}

func createSparse(path string, capacityMiB int64) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}
	//nolint:gosec // Path is derived from the work root
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create lower image"), "path", path)
	}
	if err := f.Truncate(capacityMiB * mib); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return zerr.With(zerr.Wrap(err, "failed to size lower image"), "path", path)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return zerr.With(zerr.Wrap(err, "failed to create lower image"), "path", path)
	}
	return nil
}
