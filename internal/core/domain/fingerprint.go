package domain

import (
	"fmt"
	"strings"
	"time"
)

// Fingerprint is an opaque staleness marker for an upstream or local resource.
// Two fingerprints are equal iff the resource is believed unchanged.
type Fingerprint string

// FingerprintFromHeaders renders upstream artifact metadata in the record format.
func FingerprintFromHeaders(lastModified, etag, contentLength string) Fingerprint {
	return Fingerprint(fmt.Sprintf("Last-Modified:%s ETag:%s Content-Length:%s", lastModified, etag, contentLength))
}

// FingerprintFromTime renders a modification time as a fingerprint.
func FingerprintFromTime(t time.Time) Fingerprint {
	if t.IsZero() {
		return ""
	}
	return Fingerprint(t.UTC().Format(time.RFC3339Nano))
}

// ParseFingerprint normalizes a persisted record.
func ParseFingerprint(data []byte) Fingerprint {
	return Fingerprint(strings.TrimSpace(string(data)))
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f == ""
}

func (f Fingerprint) String() string {
	return string(f)
}

// UpstreamFingerprints are the remote fingerprints the lower layer is built from.
type UpstreamFingerprints struct {
	Stage3  Fingerprint `json:"stage3"`
	Portage Fingerprint `json:"portage"`
}
