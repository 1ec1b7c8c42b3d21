package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Error kinds. Every error surfaced by the build matches at most one of these
// through errors.Is.
var (
	// ErrConfigShape is matched by a fragment field whose value has the wrong shape.
	ErrConfigShape = zerr.New("config shape error")

	// ErrDeprecatedField is matched by a renamed, retired or unknown manifest field.
	ErrDeprecatedField = zerr.New("deprecated field")

	// ErrPrecondition is matched when a stage runs without its predecessor's artifacts.
	ErrPrecondition = zerr.New("precondition failed")

	// ErrPathSafety is matched when a computed path escapes its root.
	ErrPathSafety = zerr.New("path escapes root")

	// ErrExternalTool is matched when a delegated process exits non-zero.
	ErrExternalTool = zerr.New("external tool failed")

	// ErrUpstreamFetch is matched when upstream metadata or artifacts cannot be retrieved.
	ErrUpstreamFetch = zerr.New("upstream fetch failed")
)

var (
	// ErrConfigNotFound is returned when no manifest is found walking up from the working directory.
	ErrConfigNotFound = zerr.New("could not find genpack.json5 or genpack.json")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest is not valid (relaxed) JSON.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrSettingsLoadFailed is returned when the tool settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrInvalidVariantName is returned when a variant name contains invalid characters.
	ErrInvalidVariantName = zerr.New("variant name can only contain alphanumeric characters, hyphens and underscores")

	// ErrReservedVariantName is returned when a variant is named "default".
	ErrReservedVariantName = zerr.New("variant name 'default' is reserved")

	// ErrUnknownVariant is returned when the selected variant is not declared by any fragment.
	ErrUnknownVariant = zerr.New("variant not declared in manifest")

	// ErrInvalidCompression is returned for an unrecognized compression scheme.
	ErrInvalidCompression = zerr.New("invalid compression, expected none, fast, balanced or maximal-ratio")

	// ErrInvalidCacheSharing is returned for an unrecognized cache sharing mode.
	ErrInvalidCacheSharing = zerr.New("invalid cache sharing mode, expected shared or isolated")

	// ErrInvalidLogFormat is returned for an unrecognized log format.
	ErrInvalidLogFormat = zerr.New("invalid log format, expected auto, pretty, plain or json")

	// ErrUnsupportedArch is returned when no stage3 mapping exists for the build architecture.
	ErrUnsupportedArch = zerr.New("unsupported architecture")

	// ErrStage3NotFound is returned when the stage3 index lists no tarball.
	ErrStage3NotFound = zerr.New("no stage3 tarball found in index")

	// ErrProfileNotFound is returned when the requested gentoo profile is absent from the portage tree.
	ErrProfileNotFound = zerr.New("gentoo profile not found")

	// ErrMixinFetchFailed is returned when a mixin cannot be fetched and no cached copy exists.
	ErrMixinFetchFailed = zerr.New("failed to fetch mixin")

	// ErrStoreReadFailed is returned when a state record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read state record")

	// ErrStoreUnmarshalFailed is returned when a state record cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal state record")

	// ErrStoreMarshalFailed is returned when a state record cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal state record")

	// ErrStoreWriteFailed is returned when a state record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write state record")

	// ErrStoreCreateFailed is returned when the state directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create state directory")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrScriptDiscoveryFailed is returned when the customization scripts cannot be listed.
	ErrScriptDiscoveryFailed = zerr.New("failed to discover customization scripts")
)

// ConfigShapeError reports a fragment field whose value is not the expected container.
type ConfigShapeError struct {
	Field    string
	Path     string
	Expected string
	Got      string
}

func (e *ConfigShapeError) Error() string {
	return fmt.Sprintf("%s: field %q must be %s, got %s (at %s)",
		ErrConfigShape.Error(), e.Field, e.Expected, e.Got, e.Path)
}

// Is reports whether target is ErrConfigShape.
func (e *ConfigShapeError) Is(target error) bool {
	return target == ErrConfigShape
}

// DeprecatedFieldError reports a field name that is no longer recognized.
type DeprecatedFieldError struct {
	Field       string
	Path        string
	Replacement string
}

func (e *DeprecatedFieldError) Error() string {
	if e.Replacement == "" {
		return fmt.Sprintf("%s: %q is not a recognized field (at %s)", ErrDeprecatedField.Error(), e.Field, e.Path)
	}
	return fmt.Sprintf("%s: %q has been replaced by %s (at %s)",
		ErrDeprecatedField.Error(), e.Field, e.Replacement, e.Path)
}

// Is reports whether target is ErrDeprecatedField.
func (e *DeprecatedFieldError) Is(target error) bool {
	return target == ErrDeprecatedField
}

// PreconditionError reports a stage run without an artifact it requires.
type PreconditionError struct {
	Stage   Stage
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s stage requires %s", ErrPrecondition.Error(), e.Stage, e.Missing)
}

// Is reports whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// PathSafetyError reports a path that normalizes outside its root.
type PathSafetyError struct {
	Path string
	Root string
}

func (e *PathSafetyError) Error() string {
	if e.Root == "" {
		return fmt.Sprintf("%s: %q", ErrPathSafety.Error(), e.Path)
	}
	return fmt.Sprintf("%s: %q is outside %s", ErrPathSafety.Error(), e.Path, e.Root)
}

// Is reports whether target is ErrPathSafety.
func (e *PathSafetyError) Is(target error) bool {
	return target == ErrPathSafety
}

// ExternalToolError reports a delegated process that exited non-zero.
type ExternalToolError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s: %s exited with status %d", ErrExternalTool.Error(), e.Command, e.ExitCode)
}

// Is reports whether target is ErrExternalTool.
func (e *ExternalToolError) Is(target error) bool {
	return target == ErrExternalTool
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// UpstreamFetchError reports a failed request against the upstream mirror or a mixin source.
type UpstreamFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrUpstreamFetch.Error(), e.URL, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s returned status %d", ErrUpstreamFetch.Error(), e.URL, e.Status)
	default:
		return fmt.Sprintf("%s: %s", ErrUpstreamFetch.Error(), e.URL)
	}
}

// Is reports whether target is ErrUpstreamFetch.
func (e *UpstreamFetchError) Is(target error) bool {
	return target == ErrUpstreamFetch
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

var (
	// ErrScaffoldFailed is returned when the project helper files cannot be written.
	ErrScaffoldFailed = zerr.New("failed to write project files")

	// ErrInspectFailed is returned when the effective spec cannot be rendered.
	ErrInspectFailed = zerr.New("failed to render effective spec")
)
