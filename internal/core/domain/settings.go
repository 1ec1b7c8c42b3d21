package domain

// Settings are the tool-level options that do not belong in the manifest.
type Settings struct {
	WorkRoot        string   `mapstructure:"work_root"`
	MirrorURL       string   `mapstructure:"mirror_url"`
	UserAgent       string   `mapstructure:"user_agent"`
	OverlaySource   string   `mapstructure:"overlay_source"`
	Stage3Flavor    string   `mapstructure:"stage3_flavor"`
	Compression     string   `mapstructure:"compression"`
	CacheSharing    string   `mapstructure:"cache_sharing"`
	DeleteBatchSize int      `mapstructure:"delete_batch_size"`
	LogFormat       string   `mapstructure:"log_format"`
	TrackIgnore     []string `mapstructure:"track_ignore"`
}
