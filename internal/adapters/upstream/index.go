package upstream

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	signedHeader    = "-----BEGIN PGP SIGNED MESSAGE-----"
	signatureHeader = "-----BEGIN PGP SIGNATURE-----"
)

// releaseArch names a host architecture on the mirror.
type releaseArch struct {
	// Dir is the directory under releases/.
	Dir string
	// Name is the architecture part of the stage3 file name.
	Name string
}

var releaseArches = map[string]releaseArch{
	"x86_64":  {Dir: "amd64", Name: "amd64"},
	"aarch64": {Dir: "arm64", Name: "arm64"},
	"i686":    {Dir: "x86", Name: "i686"},
	"riscv64": {Dir: "riscv", Name: "rv64_lp64d"},
}

func lookupArch(arch string) (releaseArch, error) {
	ra, ok := releaseArches[arch]
	if !ok {
		return releaseArch{}, zerr.With(domain.ErrUnsupportedArch, "arch", arch)
	}
	return ra, nil
}

// ParseStage3Index returns the tarball path listed in a latest-stage3 index.
// The index may be clearsigned; only the signed body is considered.
func ParseStage3Index(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	signed, inHeaders := false, false
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if line == signedHeader {
				signed, inHeaders = true, true
				continue
			}
		}
		if inHeaders {
			if strings.TrimSpace(line) == "" {
				inHeaders = false
			}
			continue
		}
		if signed && line == signatureHeader {
			break
		}

		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			return fields[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", zerr.Wrap(err, domain.ErrUpstreamFetch.Error())
	}
	return "", domain.ErrStage3NotFound
}
