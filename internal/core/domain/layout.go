package domain

const (
	// ManifestFileName is the preferred manifest name.
	ManifestFileName = "genpack.json5"

	// LegacyManifestFileName is the plain JSON manifest name.
	LegacyManifestFileName = "genpack.json"

	// SettingsFileName is the optional per-project settings file.
	SettingsFileName = ".genpack.yaml"

	// DefaultWorkRoot is the work directory relative to the project root.
	DefaultWorkRoot = "work"

	// MixinDirName is the mixin cache directory under the work root.
	MixinDirName = "mixins"

	// CacheDirName is the binary package cache bound at /var/cache.
	CacheDirName = "cache"

	// LowerImageName is the lower layer filesystem image.
	LowerImageName = "lower.img"

	// LowerManifestName is the owned-file manifest, the lower layer's "ready" marker.
	LowerManifestName = "lower.files"

	// StateFileName is the per-variant LayerState record.
	StateFileName = "state.json"

	// UpperDirName is the customization overlay directory.
	UpperDirName = "upper"

	// Stage3TarballName is the downloaded stage3 archive, one per architecture.
	Stage3TarballName = "stage3.tar.xz"

	// PortageTarballName is the downloaded portage snapshot, shared by all architectures.
	PortageTarballName = "portage.tar.xz"

	// HeadersSuffix is appended to a download's path to name its fingerprint record.
	HeadersSuffix = ".headers"

	// FilesDirName is the project directory copied verbatim into the upper layer.
	FilesDirName = "files"

	// ScriptsDirName is the project directory holding customization scripts.
	ScriptsDirName = "build.d"

	// ScriptsMountPoint is where the scripts directory is bound inside the container.
	ScriptsMountPoint = "/run/genpack/build.d"

	// LegacyBuildScript is the in-overlay script run once and removed.
	LegacyBuildScript = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ManifestFileNames lists the manifest names in lookup order.
func ManifestFileNames() []string {
	return []string{ManifestFileName, LegacyManifestFileName}
}
