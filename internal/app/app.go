// Package app implements the application layer for genpack.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/genpack/internal/adapters/detector"
	"go.trai.ch/genpack/internal/adapters/fs"
	"go.trai.ch/genpack/internal/adapters/mixin"
	"go.trai.ch/genpack/internal/adapters/telemetry"
	"go.trai.ch/genpack/internal/adapters/upstream"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/genpack/internal/engine/merge"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options are the per-invocation choices taken from the command line.
// Empty values fall back to the tool settings.
type Options struct {
	Variant      string
	Devel        bool
	Compression  string
	CacheSharing string
	LogFormat    string
}

// outputConfigurer is implemented by loggers whose rendering can be switched at runtime.
type outputConfigurer interface {
	SetJSON(enable bool)
	SetColor(enable bool)
	Writer() io.Writer
}

// App represents the main application logic.
type App struct {
	manifests ports.ManifestLoader
	settings  ports.SettingsLoader
	executor  ports.Executor
	sandbox   ports.Sandbox
	image     ports.ImageProvisioner
	packer    ports.Packer
	store     ports.StateStore
	hasher    ports.Hasher
	walker    *fs.Walker
	logger    ports.Logger

	out         io.Writer
	cwd         func() (string, error)
	goarch      string
	euid        func() int
	newUpstream func(domain.Settings) ports.Upstream
	newFetcher  func(domain.Settings) ports.MixinFetcher
	newTracer   func(detector.LogFormat) (ports.Tracer, func(context.Context) error)
}

// New creates a new App instance.
func New(
	manifests ports.ManifestLoader,
	settings ports.SettingsLoader,
	executor ports.Executor,
	sandbox ports.Sandbox,
	image ports.ImageProvisioner,
	packer ports.Packer,
	store ports.StateStore,
	hasher ports.Hasher,
	walker *fs.Walker,
	log ports.Logger,
) *App {
	a := &App{
		manifests: manifests,
		settings:  settings,
		executor:  executor,
		sandbox:   sandbox,
		image:     image,
		packer:    packer,
		store:     store,
		hasher:    hasher,
		walker:    walker,
		logger:    log,
		out:       os.Stdout,
		cwd:       os.Getwd,
		goarch:    runtime.GOARCH,
		euid:      os.Geteuid,
		newUpstream: func(s domain.Settings) ports.Upstream {
			return upstream.NewClient(s)
		},
	}
	a.newFetcher = func(s domain.Settings) ports.MixinFetcher {
		return mixin.NewFetcher(s.UserAgent, a.hasher, a.logger)
	}
	a.newTracer = a.defaultTracer
	return a
}

// WithOutput sets where inspect writes its report.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// session is one loaded and resolved project.
type session struct {
	project  *domain.Project
	settings domain.Settings
	format   detector.LogFormat
	bc       domain.BuildContext
	spec     domain.EffectiveSpec
}

// open loads the manifest and settings and applies the log format. It does
// not resolve the spec.
func (a *App) open(opts Options) (*session, error) {
	cwd, err := a.cwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	project, err := a.manifests.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	settings, err := a.settings.Load(project.Root)
	if err != nil {
		return nil, err
	}
	if settings.WorkRoot == "" {
		settings.WorkRoot = filepath.Join(project.Root, domain.DefaultWorkRoot)
	}

	format, err := a.configureLogging(firstNonEmpty(opts.LogFormat, settings.LogFormat))
	if err != nil {
		return nil, err
	}
	return &session{project: project, settings: settings, format: format}, nil
}

// resolve fetches the mixins and merges the project for the host architecture.
func (a *App) resolve(ctx context.Context, opts Options) (*session, error) {
	s, err := a.open(opts)
	if err != nil {
		return nil, err
	}
	bc, err := a.buildContext(s, opts)
	if err != nil {
		return nil, err
	}

	mixins, err := fetchMixins(ctx, a.newFetcher(s.settings), bc, s.project.Mixins)
	if err != nil {
		return nil, err
	}

	s.spec, s.bc, err = merge.Resolve(bc, s.project.Base, mixins)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve manifest")
	}
	return s, nil
}

func (a *App) buildContext(s *session, opts Options) (domain.BuildContext, error) {
	arch, err := domain.HostArch(a.goarch)
	if err != nil {
		return domain.BuildContext{}, err
	}
	variant, err := domain.ParseVariant(opts.Variant)
	if err != nil {
		return domain.BuildContext{}, err
	}
	compression, err := domain.ParseCompression(firstNonEmpty(opts.Compression, s.settings.Compression, string(domain.CompressionBalanced)))
	if err != nil {
		return domain.BuildContext{}, err
	}

	var sharing domain.CacheSharing
	if mode := firstNonEmpty(opts.CacheSharing, s.settings.CacheSharing); mode != "" {
		if sharing, err = domain.ParseCacheSharing(mode); err != nil {
			return domain.BuildContext{}, err
		}
	}

	return domain.BuildContext{
		Arch:         arch,
		Variant:      variant,
		ProjectRoot:  s.project.Root,
		WorkRoot:     s.settings.WorkRoot,
		Devel:        opts.Devel,
		CacheSharing: sharing,
		Compression:  compression,
	}, nil
}

// configureLogging resolves the log format and applies it to the logger.
func (a *App) configureLogging(flag string) (detector.LogFormat, error) {
	format, err := detector.ResolveFormat(detector.DetectEnvironment(), flag)
	if err != nil {
		return "", err
	}
	if lc, ok := a.logger.(outputConfigurer); ok {
		lc.SetJSON(format == detector.FormatJSON)
		lc.SetColor(format == detector.FormatPretty)
	}
	return format, nil
}

// defaultTracer prints progress next to the log output, except in JSON mode.
func (a *App) defaultTracer(format detector.LogFormat) (ports.Tracer, func(context.Context) error) {
	if format == detector.FormatJSON {
		return telemetry.NewNoOpTracer(), func(context.Context) error { return nil }
	}
	var w io.Writer = os.Stderr
	if lc, ok := a.logger.(outputConfigurer); ok {
		w = lc.Writer()
	}
	provider := telemetry.NewProvider(w, format == detector.FormatPretty)
	return provider.Tracer(), provider.Shutdown
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fetchMixins fetches every locator concurrently and returns the fragments in
// declaration order. A locator listed twice is fetched once.
func fetchMixins(
	ctx context.Context,
	fetcher ports.MixinFetcher,
	bc domain.BuildContext,
	locators []string,
) ([]domain.Fragment, error) {
	first := make(map[string]int, len(locators))
	for i, locator := range locators {
		if _, ok := first[locator]; !ok {
			first[locator] = i
		}
	}

	fragments := make([]domain.Fragment, len(locators))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for locator, i := range first {
		g.Go(func() error {
			fragment, err := fetcher.Fetch(groupCtx, bc, locator)
			if err != nil {
				return err
			}
			fragments[i] = fragment
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, locator := range locators {
		if j := first[locator]; j != i {
			fragments[i] = fragments[j]
		}
	}
	return fragments, nil
}
