// Package squashfs packs the upper layer into a squashfs image.
package squashfs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Packer = (*Packer)(nil)

// Packer implements ports.Packer with mksquashfs. The upper directory is
// root-owned, so packing runs privileged and the image is handed back to the
// invoking user afterwards.
type Packer struct {
	executor ports.Executor
	uid, gid int
}

// NewPacker creates a Packer that chowns images to the current user.
func NewPacker(executor ports.Executor) *Packer {
	return &Packer{executor: executor, uid: os.Getuid(), gid: os.Getgid()}
}

// Args returns the mksquashfs arguments writing src to dst.
func Args(src, dst string, c domain.Compression) []string {
	args := []string{src, dst, "-noappend", "-no-exports"}
	return append(args, c.SquashfsArgs()...)
}

// Pack writes src to dst using compression c.
func (p *Packer) Pack(ctx context.Context, src, dst string, c domain.Compression) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dst)
	}
	err := p.executor.Run(ctx, domain.Command{Name: "mksquashfs", Args: Args(src, dst, c), Privileged: true})
	if err != nil {
		return err
	}
	owner := strconv.Itoa(p.uid) + ":" + strconv.Itoa(p.gid)
	return p.executor.Run(ctx, domain.Command{Name: "chown", Args: []string{owner, dst}, Privileged: true})
}
