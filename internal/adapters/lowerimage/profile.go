package lowerimage

import (
	"io/fs"
	"path"
	"strconv"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

const profilesRoot = "var/db/repos/gentoo/profiles/default/linux"

// portageArches maps host architectures onto portage profile directories.
var portageArches = map[string]string{
	"loongarch64": "loong",
	"ppc":         "powerpc",
	"riscv64":     "riscv",
	"riscv32":     "riscv",
	"i686":        "x86",
	"x86_64":      "amd64",
	"aarch64":     "arm64",
}

// PortageArch returns the profile directory name for a host architecture.
func PortageArch(arch string) string {
	if a, ok := portageArches[arch]; ok {
		return a
	}
	return arch
}

// ResolveProfile finds profile under the newest release directory of
// default/linux/<arch> in the image root and returns its eselect name,
// e.g. "default/linux/amd64/23.0/systemd".
func ResolveProfile(root fs.FS, arch, profile string) (string, error) {
	archDir := path.Join(profilesRoot, PortageArch(arch))
	entries, err := fs.ReadDir(root, archDir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrProfileNotFound.Error()), "dir", archDir)
	}

	latest, latestVersion := "", -1.0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.ParseFloat(e.Name(), 64)
		if err != nil {
			continue
		}
		if v > latestVersion {
			latest, latestVersion = e.Name(), v
		}
	}
	if latest == "" {
		return "", zerr.With(domain.ErrProfileNotFound, "dir", archDir)
	}

	info, err := fs.Stat(root, path.Join(archDir, latest, profile))
	if err != nil || !info.IsDir() {
		return "", zerr.With(zerr.With(domain.ErrProfileNotFound, "release", latest), "profile", profile)
	}
	return path.Join("default/linux", PortageArch(arch), latest, profile), nil
}
