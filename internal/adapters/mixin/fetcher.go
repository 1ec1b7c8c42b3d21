// Package mixin resolves mixin locators into configuration fragments and
// keeps a local copy of each so builds survive an unreachable source.
package mixin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/genpack/internal/adapters/config"
	"go.trai.ch/genpack/internal/adapters/upstream"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MixinFetcher = (*Fetcher)(nil)

// Fetcher implements ports.MixinFetcher for http(s) URLs and project-relative paths.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	Hasher     ports.Hasher
	Logger     ports.Logger
	Timeout    time.Duration
}

// NewFetcher creates a Fetcher sending userAgent with remote requests.
func NewFetcher(userAgent string, hasher ports.Hasher, logger ports.Logger) *Fetcher {
	return &Fetcher{
		HTTPClient: upstream.NewHTTPClient(),
		UserAgent:  userAgent,
		Hasher:     hasher,
		Logger:     logger,
		Timeout:    upstream.DefaultTimeout,
	}
}

// CachePath is where the fragment fetched from locator is kept.
func CachePath(bc domain.BuildContext, locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return filepath.Join(bc.MixinCacheDir(), hex.EncodeToString(sum[:])+".json")
}

// Origin labels a mixin fragment in breadcrumbs.
func Origin(locator string) string {
	return "mixin(" + locator + ")"
}

// Fetch reads the fragment at locator and refreshes its cached copy. When the
// source cannot be read the cached copy is used instead, with a warning.
func (f *Fetcher) Fetch(ctx context.Context, bc domain.BuildContext, locator string) (domain.Fragment, error) {
	cache := CachePath(bc, locator)

	data, err := f.read(ctx, bc, locator)
	if err == nil {
		var fields domain.ConfigValue
		fields, err = config.ParseManifest(data)
		if err == nil {
			if err := f.store(cache, data); err != nil {
				return domain.Fragment{}, err
			}
			return domain.Fragment{Origin: Origin(locator), Fields: fields}, nil
		}
	}

	//nolint:gosec // Path is derived from the work root
	cached, cacheErr := os.ReadFile(cache)
	if cacheErr != nil {
		return domain.Fragment{}, zerr.With(zerr.Wrap(err, domain.ErrMixinFetchFailed.Error()), "mixin", locator)
	}
	f.Logger.Warn("using cached copy of " + Origin(locator) + ": " + err.Error())

	fields, err := config.ParseManifest(cached)
	if err != nil {
		return domain.Fragment{}, zerr.With(zerr.With(err, "mixin", locator), "path", cache)
	}
	return domain.Fragment{Origin: Origin(locator), Fields: fields}, nil
}

func (f *Fetcher) read(ctx context.Context, bc domain.BuildContext, locator string) ([]byte, error) {
	if isRemote(locator) {
		return f.get(ctx, locator)
	}
	path := locator
	if !filepath.IsAbs(path) {
		path = filepath.Join(bc.ProjectRoot, path)
	}
	//nolint:gosec // Path is declared by the manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &domain.UpstreamFetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamFetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamFetchError{URL: url, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamFetchError{URL: url, Err: err}
	}
	return data, nil
}

// store replaces the cached copy unless its content is unchanged. The cache
// directory is a tracked build input, so an identical refresh writes nothing.
func (f *Fetcher) store(cache string, data []byte) error {
	old, err := f.Hasher.HashFile(cache)
	switch {
	case err == nil && old == f.Hasher.HashBytes(data):
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cache), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", cache)
	}
	tmp, err := os.CreateTemp(filepath.Dir(cache), "."+filepath.Base(cache)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", cache)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", cache)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", cache)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", cache)
	}
	if err := os.Rename(tmpName, cache); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", cache)
	}
	return nil
}

func isRemote(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}
