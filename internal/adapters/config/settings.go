package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/genpack/internal/build"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// DefaultMirrorURL is the gentoo distfiles mirror.
	DefaultMirrorURL = "http://ftp.iij.ad.jp/pub/linux/gentoo/"
	// DefaultOverlaySource is the git repository of the genpack overlay.
	DefaultOverlaySource = "https://github.com/wbrxcorp/genpack-overlay.git"
	// DefaultStage3Flavor selects the systemd stage3 builds.
	DefaultStage3Flavor = "systemd"
	// DefaultDeleteBatchSize bounds each reconciliation rm invocation.
	DefaultDeleteBatchSize = 256

	envPrefix = "GENPACK"
)

// SettingsLoader implements ports.SettingsLoader with viper. Sources are
// layered from lowest to highest precedence: defaults, the user config file,
// the project's .genpack.yaml and GENPACK_* environment variables.
type SettingsLoader struct {
	// UserConfigDir overrides the per-user configuration directory.
	UserConfigDir string
}

// NewSettingsLoader creates a SettingsLoader reading the platform's user config directory.
func NewSettingsLoader() *SettingsLoader {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = ""
	}
	return &SettingsLoader{UserConfigDir: dir}
}

// Load returns the settings for the project rooted at projectRoot.
func (l *SettingsLoader) Load(projectRoot string) (domain.Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var files []string
	if l.UserConfigDir != "" {
		files = append(files, filepath.Join(l.UserConfigDir, "genpack", "config.yaml"))
	}
	if projectRoot != "" {
		files = append(files, filepath.Join(projectRoot, domain.SettingsFileName))
	}
	for _, path := range files {
		if err := mergeFile(v, path); err != nil {
			return domain.Settings{}, err
		}
	}

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		return domain.Settings{}, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}
	if s.WorkRoot != "" && !filepath.IsAbs(s.WorkRoot) && projectRoot != "" {
		s.WorkRoot = filepath.Join(projectRoot, s.WorkRoot)
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("work_root", domain.DefaultWorkRoot)
	v.SetDefault("mirror_url", DefaultMirrorURL)
	v.SetDefault("user_agent", build.UserAgent())
	v.SetDefault("overlay_source", DefaultOverlaySource)
	v.SetDefault("stage3_flavor", DefaultStage3Flavor)
	v.SetDefault("compression", string(domain.CompressionBalanced))
	v.SetDefault("cache_sharing", "")
	v.SetDefault("delete_batch_size", DefaultDeleteBatchSize)
	v.SetDefault("log_format", "auto")
	v.SetDefault("track_ignore", []string{"**/*.swp", "**/*~"})
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.MergeInConfig(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error()), "path", path)
	}
	return nil
}
