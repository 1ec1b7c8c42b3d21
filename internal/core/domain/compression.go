package domain

import "go.trai.ch/zerr"

// Compression is the image compression scheme.
type Compression string

const (
	// CompressionNone stores data uncompressed.
	CompressionNone Compression = "none"
	// CompressionFast favours build speed.
	CompressionFast Compression = "fast"
	// CompressionBalanced trades ratio for speed; it is the default.
	CompressionBalanced Compression = "balanced"
	// CompressionMaximalRatio favours image size.
	CompressionMaximalRatio Compression = "maximal-ratio"
)

// legacyCompression maps the tool names accepted by earlier releases.
var legacyCompression = map[string]Compression{
	"lzo":  CompressionFast,
	"gzip": CompressionBalanced,
	"xz":   CompressionMaximalRatio,
}

// ParseCompression validates a scheme name. The legacy names lzo, gzip and xz are accepted.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case CompressionNone, CompressionFast, CompressionBalanced, CompressionMaximalRatio:
		return c, nil
	}
	if c, ok := legacyCompression[s]; ok {
		return c, nil
	}
	return "", zerr.With(ErrInvalidCompression, "compression", s)
}

// SquashfsArgs returns the mksquashfs arguments selecting the scheme.
func (c Compression) SquashfsArgs() []string {
	switch c {
	case CompressionNone:
		return []string{"-no-compression"}
	case CompressionFast:
		return []string{"-comp", "lzo"}
	case CompressionMaximalRatio:
		return []string{"-comp", "xz", "-b", "1M"}
	default:
		return []string{"-comp", "gzip", "-Xcompression-level", "1"}
	}
}

// CacheSharing selects whether variants share the binary package cache.
type CacheSharing string

const (
	// CacheShared binds one cache per architecture.
	CacheShared CacheSharing = "shared"
	// CacheIsolated binds one cache per variant.
	CacheIsolated CacheSharing = "isolated"
)

// ParseCacheSharing validates a cache sharing mode.
func ParseCacheSharing(s string) (CacheSharing, error) {
	switch m := CacheSharing(s); m {
	case CacheShared, CacheIsolated:
		return m, nil
	}
	return "", zerr.With(ErrInvalidCacheSharing, "cache_sharing", s)
}
