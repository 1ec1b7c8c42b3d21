// Package upstream resolves and downloads the stage3 archive and the portage
// snapshot from a Gentoo mirror.
package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultTimeout bounds metadata requests. Downloads are bounded by the context only.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of retries after a transient failure.
	DefaultMaxRetries = 3

	portageSnapshot = "snapshots/portage-latest.tar.xz"
)

var _ ports.Upstream = (*Client)(nil)

// Client implements ports.Upstream against one mirror.
type Client struct {
	// MirrorURL is the mirror root, ending in a slash.
	MirrorURL string
	// Flavor selects the stage3 init system, e.g. "systemd".
	Flavor string
	// UserAgent is sent with every request.
	UserAgent string
	// HTTPClient performs the requests.
	HTTPClient *http.Client
	// MaxRetries is how often a request is retried after a transient failure.
	MaxRetries uint64
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
}

// NewClient creates a Client from the tool settings.
func NewClient(settings domain.Settings) *Client {
	mirror := settings.MirrorURL
	if !strings.HasSuffix(mirror, "/") {
		mirror += "/"
	}
	return &Client{
		MirrorURL:       mirror,
		Flavor:          settings.Stage3Flavor,
		UserAgent:       settings.UserAgent,
		HTTPClient:      NewHTTPClient(),
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: time.Second,
	}
}

// NewHTTPClient returns a traced client that leaves response bodies and
// Content-Length untouched, so HEAD and GET report the same metadata.
func NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true
	return &http.Client{Transport: otelhttp.NewTransport(transport)}
}

// Stage3URL reads the mirror's latest-stage3 index for arch and returns the
// absolute URL of the archive it lists.
func (c *Client) Stage3URL(ctx context.Context, arch string) (string, error) {
	ra, err := lookupArch(arch)
	if err != nil {
		return "", err
	}
	base := c.MirrorURL + "releases/" + ra.Dir + "/autobuilds/"
	index := base + "latest-stage3-" + ra.Name + "-" + c.Flavor + ".txt"

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, index)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	path, err := ParseStage3Index(resp.Body)
	if err != nil {
		return "", zerr.With(zerr.With(err, "arch", arch), "flavor", c.Flavor)
	}
	return base + path, nil
}

// PortageURL returns the URL of the latest portage snapshot.
func (c *Client) PortageURL() string {
	return c.MirrorURL + portageSnapshot
}

// Head fingerprints the artifact at url without downloading it.
func (c *Client) Head(ctx context.Context, url string) (domain.Fingerprint, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return "", err
	}
	_ = resp.Body.Close()
	return fingerprint(resp.Header), nil
}

// Download stores the artifact at url as dest. The file is written next to
// dest and renamed into place, so an interrupted download leaves the previous
// copy intact.
func (c *Client) Download(ctx context.Context, url, dest string) (domain.Fingerprint, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dest)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dest)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", &domain.UpstreamFetchError{URL: url, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dest)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dest)
	}
	return fingerprint(resp.Header), nil
}

// do issues the request, retrying transport errors and server errors with
// exponential backoff. Any other non-2xx status fails immediately.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.MaxRetries), ctx)

	var resp *http.Response
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
		if err != nil {
			return backoff.Permanent(&domain.UpstreamFetchError{URL: url, Err: err})
		}
		req.Header.Set("User-Agent", c.UserAgent)

		r, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(&domain.UpstreamFetchError{URL: url, Err: ctx.Err()})
			}
			return &domain.UpstreamFetchError{URL: url, Err: err}
		}
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
			fetchErr := &domain.UpstreamFetchError{URL: url, Status: r.StatusCode}
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				return fetchErr
			}
			return backoff.Permanent(fetchErr)
		}
		resp = r
		return nil
	}, policy)
	if err != nil {
		var fetchErr *domain.UpstreamFetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.UpstreamFetchError{URL: url, Err: err}
		}
		return nil, err
	}
	return resp, nil
}

func fingerprint(h http.Header) domain.Fingerprint {
	return domain.FingerprintFromHeaders(h.Get("Last-Modified"), h.Get("ETag"), h.Get("Content-Length"))
}
