package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/genpack/internal/adapters/fs"
	"go.trai.ch/genpack/internal/app"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	manifests *mocks.MockManifestLoader
	logger    *mocks.MockLogger
	provider  ComponentProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		manifests: mocks.NewMockManifestLoader(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	application := app.New(
		f.manifests,
		mocks.NewMockSettingsLoader(ctrl),
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockSandbox(ctrl),
		mocks.NewMockImageProvisioner(ctrl),
		mocks.NewMockPacker(ctrl),
		mocks.NewMockStateStore(ctrl),
		mocks.NewMockHasher(ctrl),
		fs.NewWalker(),
		f.logger,
	)
	f.provider = func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: f.logger}, func() {}, nil
	}
	return f
}

func TestRun_Version(t *testing.T) {
	f := newFixture(t)
	stdout := new(bytes.Buffer)

	code := run(t.Context(), []string{"version"}, stdout, new(bytes.Buffer), f.provider)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "genpack version dev")
}

func TestRun_ManifestMissing(t *testing.T) {
	f := newFixture(t)
	f.manifests.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigNotFound)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	code := run(t.Context(), []string{"inspect"}, new(bytes.Buffer), new(bytes.Buffer), f.provider)

	assert.Equal(t, 1, code)
}

func TestRun_UnknownCommand(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Error(gomock.Any())

	code := run(t.Context(), []string{"frobnicate"}, new(bytes.Buffer), new(bytes.Buffer), f.provider)

	assert.Equal(t, 1, code)
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, func() {}, errors.New("graph failed")
	}

	code := run(t.Context(), nil, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: graph failed\n", stderr.String())
}
