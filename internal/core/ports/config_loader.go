package ports

import "go.trai.ch/genpack/internal/core/domain"

// ManifestLoader locates and parses the build manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load finds the manifest walking up from cwd and returns the parsed project.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd and returns the directory holding the manifest.
	DiscoverRoot(cwd string) (string, error)
}

// SettingsLoader loads tool settings for a project.
type SettingsLoader interface {
	// Load returns the settings layered from defaults, settings files and the environment.
	Load(projectRoot string) (domain.Settings, error)
}
