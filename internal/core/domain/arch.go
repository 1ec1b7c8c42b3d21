package domain

import "go.trai.ch/zerr"

// hostArchs maps Go architecture names to the machine names genpack uses.
var hostArchs = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"riscv64": "riscv64",
}

// HostArch returns the machine name for a Go architecture, e.g. "x86_64" for "amd64".
func HostArch(goarch string) (string, error) {
	if arch, ok := hostArchs[goarch]; ok {
		return arch, nil
	}
	return "", zerr.With(ErrUnsupportedArch, "arch", goarch)
}
