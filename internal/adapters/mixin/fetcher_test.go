package mixin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/adapters/fs"
	"go.trai.ch/genpack/internal/adapters/mixin"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const remoteFragment = `{
	// shared across appliances
	"packages": ["app-editors/vim",],
}`

type source struct {
	*httptest.Server
	body      atomic.Value
	available atomic.Bool
}

func newSource(t *testing.T) *source {
	t.Helper()
	s := &source{}
	s.body.Store(remoteFragment)
	s.available.Store(true)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.available.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "genpack/test", r.UserAgent())
		_, _ = w.Write([]byte(s.body.Load().(string)))
	}))
	t.Cleanup(s.Close)
	return s
}

func newFetcher(t *testing.T) (*mixin.Fetcher, *mocks.MockLogger) {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	return mixin.NewFetcher("genpack/test", fs.NewHasher(), logger), logger
}

func buildContext(t *testing.T) domain.BuildContext {
	t.Helper()
	root := t.TempDir()
	return domain.BuildContext{Arch: "x86_64", ProjectRoot: root, WorkRoot: filepath.Join(root, "work")}
}

func TestFetcher_Remote(t *testing.T) {
	src := newSource(t)
	f, _ := newFetcher(t)
	bc := buildContext(t)
	locator := src.URL + "/base.json5"

	frag, err := f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)
	assert.Equal(t, "mixin("+locator+")", frag.Origin)
	pkgs, ok := frag.Fields.Get("packages")
	require.True(t, ok)
	assert.Equal(t, domain.KindList, pkgs.Kind())

	cached, err := os.ReadFile(mixin.CachePath(bc, locator))
	require.NoError(t, err)
	assert.Equal(t, remoteFragment, string(cached))
}

func TestFetcher_UnchangedContentKeepsCacheMtime(t *testing.T) {
	src := newSource(t)
	f, _ := newFetcher(t)
	bc := buildContext(t)
	locator := src.URL + "/base.json5"

	_, err := f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)

	cache := mixin.CachePath(bc, locator)
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(cache, past, past))

	_, err = f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)
	info, err := os.Stat(cache)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "identical content leaves the cache untouched")

	src.body.Store(`{"packages": ["app-editors/nano"]}`)
	_, err = f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)
	info, err = os.Stat(cache)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(past))

	entries, err := os.ReadDir(bc.MixinCacheDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFetcher_IdenticalRefreshKeepsInputsFresh(t *testing.T) {
	src := newSource(t)
	f, _ := newFetcher(t)
	bc := buildContext(t)
	locator := src.URL + "/base.json5"

	_, err := f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)

	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(mixin.CachePath(bc, locator), past, past))
	require.NoError(t, os.Chtimes(bc.MixinCacheDir(), past, past))

	_, err = f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)

	scanner, err := fs.NewScanner(fs.NewWalker(), nil)
	require.NoError(t, err)
	newest, err := scanner.NewestModTime(bc.MixinCacheDir())
	require.NoError(t, err)
	assert.True(t, newest.Equal(past), "newest input is %s, want %s", newest, past)
}

func TestFetcher_FallsBackToCache(t *testing.T) {
	src := newSource(t)
	f, logger := newFetcher(t)
	bc := buildContext(t)
	locator := src.URL + "/base.json5"

	_, err := f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)

	src.available.Store(false)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	frag, err := f.Fetch(context.Background(), bc, locator)
	require.NoError(t, err)
	_, ok := frag.Fields.Get("packages")
	assert.True(t, ok)
}

func TestFetcher_UnreachableWithoutCache(t *testing.T) {
	src := newSource(t)
	src.available.Store(false)
	f, _ := newFetcher(t)

	_, err := f.Fetch(context.Background(), buildContext(t), src.URL+"/base.json5")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFetch)
	assert.ErrorContains(t, err, domain.ErrMixinFetchFailed.Error())
}

func TestFetcher_LocalPath(t *testing.T) {
	f, _ := newFetcher(t)
	bc := buildContext(t)
	require.NoError(t, os.MkdirAll(filepath.Join(bc.ProjectRoot, "mixins"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(bc.ProjectRoot, "mixins", "ssh.json"), []byte(`{"services": ["sshd"]}`), 0o600))

	frag, err := f.Fetch(context.Background(), bc, "mixins/ssh.json")
	require.NoError(t, err)
	assert.Equal(t, "mixin(mixins/ssh.json)", frag.Origin)
	_, err = os.Stat(mixin.CachePath(bc, "mixins/ssh.json"))
	require.NoError(t, err)
}

func TestFetcher_InvalidFragment(t *testing.T) {
	src := newSource(t)
	src.body.Store(`["not", "an", "object"]`)
	f, _ := newFetcher(t)
	bc := buildContext(t)

	_, err := f.Fetch(context.Background(), bc, src.URL+"/bad.json")
	require.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())

	_, err = os.Stat(mixin.CachePath(bc, src.URL+"/bad.json"))
	assert.ErrorIs(t, err, os.ErrNotExist, "invalid fragments are not cached")
}

func TestCachePath(t *testing.T) {
	bc := domain.BuildContext{WorkRoot: "/w"}
	a := mixin.CachePath(bc, "https://example.invalid/a.json")
	b := mixin.CachePath(bc, "https://example.invalid/b.json")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "/w/mixins", filepath.Dir(a))
	assert.Len(t, filepath.Base(a), 64+len(".json"))
}
