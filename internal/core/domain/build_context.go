package domain

import "path/filepath"

// BuildContext is the immutable description of one invocation: which
// architecture and variant are being built and where their state lives.
// Components receive it explicitly instead of reading process-wide state.
type BuildContext struct {
	Arch         string
	Variant      Variant
	ProjectRoot  string
	WorkRoot     string
	Devel        bool
	CacheSharing CacheSharing
	Compression  Compression
}

// WithVariant returns a copy of bc building variant v.
func (bc BuildContext) WithVariant(v Variant) BuildContext {
	bc.Variant = v
	return bc
}

// WithCacheSharing returns a copy of bc using mode m.
func (bc BuildContext) WithCacheSharing(m CacheSharing) BuildContext {
	bc.CacheSharing = m
	return bc
}

// ArchDir is the per-architecture work directory.
func (bc BuildContext) ArchDir() string {
	return filepath.Join(bc.WorkRoot, bc.Arch)
}

// VariantDir is the work directory owned exclusively by the variant.
func (bc BuildContext) VariantDir() string {
	return filepath.Join(bc.ArchDir(), bc.Variant.DirName())
}

// LowerImagePath is the variant's lower layer image.
func (bc BuildContext) LowerImagePath() string {
	return filepath.Join(bc.VariantDir(), LowerImageName)
}

// LowerManifestPath is the variant's owned-file manifest.
func (bc BuildContext) LowerManifestPath() string {
	return filepath.Join(bc.VariantDir(), LowerManifestName)
}

// StatePath is the variant's LayerState record.
func (bc BuildContext) StatePath() string {
	return filepath.Join(bc.VariantDir(), StateFileName)
}

// UpperDir is the variant's customization overlay.
func (bc BuildContext) UpperDir() string {
	return filepath.Join(bc.VariantDir(), UpperDirName)
}

// CacheDir is the binary package cache bound into containers.
func (bc BuildContext) CacheDir() string {
	if bc.CacheSharing == CacheIsolated {
		return filepath.Join(bc.VariantDir(), CacheDirName)
	}
	return filepath.Join(bc.ArchDir(), CacheDirName)
}

// Stage3Path is the downloaded stage3 archive for the architecture.
func (bc BuildContext) Stage3Path() string {
	return filepath.Join(bc.ArchDir(), Stage3TarballName)
}

// Stage3RecordPath is the fingerprint record of the stage3 download.
func (bc BuildContext) Stage3RecordPath() string {
	return bc.Stage3Path() + HeadersSuffix
}

// PortagePath is the downloaded portage snapshot.
func (bc BuildContext) PortagePath() string {
	return filepath.Join(bc.WorkRoot, PortageTarballName)
}

// PortageRecordPath is the fingerprint record of the portage download.
func (bc BuildContext) PortageRecordPath() string {
	return bc.PortagePath() + HeadersSuffix
}

// MixinCacheDir holds cached mixin fragments.
func (bc BuildContext) MixinCacheDir() string {
	return filepath.Join(bc.WorkRoot, MixinDirName)
}

// FilesDir is the project directory copied into the upper layer.
func (bc BuildContext) FilesDir() string {
	return filepath.Join(bc.ProjectRoot, FilesDirName)
}

// ScriptsDir is the project directory holding customization scripts.
func (bc BuildContext) ScriptsDir() string {
	return filepath.Join(bc.ProjectRoot, ScriptsDirName)
}
