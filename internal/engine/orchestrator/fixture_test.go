package orchestrator_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/genpack/internal/core/ports/mocks"
	"go.trai.ch/genpack/internal/engine/merge"
	"go.trai.ch/genpack/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

const (
	stage3URL  = "https://mirror.example/releases/amd64/autobuilds/stage3-amd64-systemd.tar.xz"
	portageURL = "https://mirror.example/snapshots/portage-latest.tar.xz"
	overlayURL = "https://github.com/genpack/genpack-overlay.git"
)

var (
	inputsTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	buildTime  = inputsTime.Add(time.Hour)
)

// disk records the paths the fakes and mocks have created.
type disk struct {
	mtimes map[string]time.Time
	trees  map[string][]string
	newest time.Time
}

func (d *disk) touch(p string) {
	d.mtimes[p] = buildTime
}

func (d *disk) NewestModTime(_ ...string) (time.Time, error) {
	return d.newest, nil
}

func (d *disk) ModTime(p string) (time.Time, bool, error) {
	t, ok := d.mtimes[p]
	return t, ok, nil
}

type memStore struct {
	disk      *disk
	fps       map[string]domain.Fingerprint
	states    map[string]domain.LayerState
	manifests map[string]domain.OwnedFileManifest
}

func (s *memStore) ReadFingerprint(path string) (domain.Fingerprint, error) {
	return s.fps[path], nil
}

func (s *memStore) WriteFingerprint(path string, fp domain.Fingerprint) error {
	s.fps[path] = fp
	s.disk.touch(path)
	return nil
}

func (s *memStore) LoadLayerState(path string) (domain.LayerState, error) {
	return s.states[path], nil
}

func (s *memStore) SaveLayerState(path string, state domain.LayerState) error {
	s.states[path] = state
	return nil
}

func (s *memStore) ReadManifest(path string) (domain.OwnedFileManifest, bool, error) {
	m, ok := s.manifests[path]
	return m, ok, nil
}

func (s *memStore) WriteManifest(path string, m domain.OwnedFileManifest) error {
	s.manifests[path] = m
	s.disk.touch(path)
	return nil
}

func (s *memStore) RemoveManifest(path string) error {
	delete(s.manifests, path)
	delete(s.disk.mtimes, path)
	return nil
}

type fixture struct {
	sandbox  *mocks.MockSandbox
	image    *mocks.MockImageProvisioner
	packer   *mocks.MockPacker
	upstream *mocks.MockUpstream
	executor *mocks.MockExecutor

	disk  *disk
	store *memStore
	orch  *orchestrator.Orchestrator
	bc    domain.BuildContext
	opts  orchestrator.BuildOptions

	heads       map[string]domain.Fingerprint
	downloads   int
	sandboxRuns [][]string
	sandboxOpts []ports.SandboxOptions
	commands    []domain.Command
	listings    []domain.Command
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	d := &disk{
		mtimes: map[string]time.Time{},
		trees:  map[string][]string{},
		newest: inputsTime,
	}
	f := &fixture{
		sandbox:  mocks.NewMockSandbox(ctrl),
		image:    mocks.NewMockImageProvisioner(ctrl),
		packer:   mocks.NewMockPacker(ctrl),
		upstream: mocks.NewMockUpstream(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		disk:     d,
		store: &memStore{
			disk:      d,
			fps:       map[string]domain.Fingerprint{},
			states:    map[string]domain.LayerState{},
			manifests: map[string]domain.OwnedFileManifest{},
		},
		bc: domain.BuildContext{
			Arch:         "x86_64",
			ProjectRoot:  "/src/appliance",
			WorkRoot:     "/src/appliance/work",
			CacheSharing: domain.CacheShared,
			Compression:  domain.CompressionBalanced,
		},
		opts: orchestrator.BuildOptions{
			Inputs:        []string{"/src/appliance/genpack.json5"},
			OverlaySource: overlayURL,
		},
		heads: map[string]domain.Fingerprint{
			stage3URL:  "stage3-v1",
			portageURL: "portage-v1",
		},
	}

	f.orch = orchestrator.New(f.sandbox, f.image, f.packer, f.upstream, f.store, d, f.executor, tracer, logger)
	f.orch.SetNowForTest(func() time.Time { return buildTime })
	f.orch.SetScriptsFSForTest(func(string) fs.FS { return fstest.MapFS{} })
	return f
}

func applianceSpec() domain.EffectiveSpec {
	spec := merge.Defaults()
	spec.Name = "appliance"
	spec.Outfile = "appliance-x86_64.squashfs"
	spec.Packages = []string{"app-misc/hello", "net-misc/openssh"}
	spec.Users = []domain.User{{Name: "alice", Shell: "/bin/bash"}}
	spec.Services = []string{"sshd"}
	return spec
}

const applianceListing = "/usr/bin/hello\n/usr/sbin/sshd\n/etc/ssh/sshd_config\n"

// allowUpstream serves the fixture's heads and records downloads.
func (f *fixture) allowUpstream() {
	f.upstream.EXPECT().Stage3URL(gomock.Any(), "x86_64").Return(stage3URL, nil).AnyTimes()
	f.upstream.EXPECT().PortageURL().Return(portageURL).AnyTimes()
	f.upstream.EXPECT().Head(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, url string) (domain.Fingerprint, error) {
			return f.heads[url], nil
		}).AnyTimes()
	f.upstream.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, url, dest string) (domain.Fingerprint, error) {
			f.downloads++
			f.disk.touch(dest)
			return f.heads[url], nil
		}).AnyTimes()
}

// allowProvisioning accepts every overlay sync, flag install, container
// command and host command, recording the latter two. Tree listings are
// served from disk.trees.
func (f *fixture) allowProvisioning(listing string) {
	f.image.EXPECT().SyncOverlay(gomock.Any(), f.bc, overlayURL).Return(nil).AnyTimes()
	f.image.EXPECT().InstallFiles(gomock.Any(), f.bc, gomock.Any()).Return(nil).AnyTimes()
	f.sandbox.EXPECT().Run(gomock.Any(), f.bc, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.BuildContext, argv []string, opts ports.SandboxOptions) error {
			f.sandboxRuns = append(f.sandboxRuns, argv)
			f.sandboxOpts = append(f.sandboxOpts, opts)
			return nil
		}).AnyTimes()
	f.sandbox.EXPECT().Output(gomock.Any(), f.bc, gomock.Any(), gomock.Any()).Return([]byte(listing), nil).AnyTimes()
	f.executor.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) ([]byte, error) {
			f.listings = append(f.listings, cmd)
			var out strings.Builder
			for _, p := range f.disk.trees[cmd.Args[0]] {
				out.WriteString(p + "\n")
			}
			return []byte(out.String()), nil
		}).AnyTimes()
	f.executor.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) error {
			f.commands = append(f.commands, cmd)
			if cmd.Name == "mkdir" {
				f.disk.touch(cmd.Args[len(cmd.Args)-1])
			}
			return nil
		}).AnyTimes()
}

func (f *fixture) expectCreate(times int) {
	f.image.EXPECT().Create(gomock.Any(), f.bc, domain.DefaultLowerLayerCapacity).DoAndReturn(
		func(_ context.Context, bc domain.BuildContext, _ int64) error {
			f.disk.touch(bc.LowerImagePath())
			return nil
		}).Times(times)
}

func (f *fixture) expectPack(spec domain.EffectiveSpec, times int) {
	f.packer.EXPECT().Pack(gomock.Any(), f.bc.UpperDir(), orchestrator.OutfilePath(f.bc, spec), domain.CompressionBalanced).DoAndReturn(
		func(_ context.Context, _, dst string, _ domain.Compression) error {
			f.disk.touch(dst)
			return nil
		}).Times(times)
}

func (f *fixture) state() domain.LayerState {
	return f.store.states[f.bc.StatePath()]
}
