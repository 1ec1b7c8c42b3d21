package app

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Options
	// All removes the whole architecture work directory instead of one variant's.
	All bool
}

// Clean removes build state. The work trees contain root-owned files, so
// removal goes through a privileged rm.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	var dir string
	if opts.All {
		s, err := a.open(opts.Options)
		if err != nil {
			return err
		}
		bc, err := a.buildContext(s, opts.Options)
		if err != nil {
			return err
		}
		dir = bc.ArchDir()
	} else {
		s, err := a.resolve(ctx, opts.Options)
		if err != nil {
			return err
		}
		dir = s.bc.VariantDir()
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		a.logger.Info("nothing to clean in " + dir)
		return nil
	} else if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", dir)
	}

	if err := a.authenticate(ctx); err != nil {
		return err
	}
	a.logger.Info("removing " + dir)
	return a.executor.Run(ctx, domain.Command{
		Name:       "rm",
		Args:       []string{"-rf", "--", dir},
		Privileged: true,
	})
}
