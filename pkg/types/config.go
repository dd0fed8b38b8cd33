package types

// Config represents the overall application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Providers ProvidersConfig `yaml:"providers" json:"providers"`
	Activity  ActivityConfig  `yaml:"activity" json:"activity"`
	Audio     AudioConfig     `yaml:"audio" json:"audio"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"read_timeout" json:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" json:"write_timeout"` // seconds
}

// StorageConfig defines storage adapter settings for audio assets
type StorageConfig struct {
	Adapter string           `yaml:"adapter" json:"adapter"` // "local" or "s3"
	Local   LocalStorageOpts `yaml:"local" json:"local"`
	S3      S3StorageOpts    `yaml:"s3" json:"s3"`
}

// LocalStorageOpts configures the local filesystem adapter
type LocalStorageOpts struct {
	BasePath string `yaml:"base_path" json:"base_path"`
}

// S3StorageOpts configures the S3-compatible adapter
type S3StorageOpts struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" json:"use_ssl"`
}

// ProvidersConfig holds the analyzer and synthesizer provider configurations
type ProvidersConfig struct {
	Analyzer []AnalyzerProviderConfig `yaml:"analyzer" json:"analyzer"`
	Speech   []SpeechProviderConfig   `yaml:"speech" json:"speech"`
}

// AnalyzerProviderConfig configures a chat-completion analyzer provider
type AnalyzerProviderConfig struct {
	Name     string            `yaml:"name" json:"name"`
	Enabled  bool              `yaml:"enabled" json:"enabled"`
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	APIKey   string            `yaml:"api_key" json:"api_key"`
	Model    string            `yaml:"model" json:"model"`
	Options  map[string]string `yaml:"options" json:"options"`
}

// SpeechProviderConfig configures a neural TTS synthesizer provider
type SpeechProviderConfig struct {
	Name    string `yaml:"name" json:"name"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Region  string `yaml:"region" json:"region"`
	APIKey  string `yaml:"api_key" json:"api_key"`
	// Endpoint overrides the region-derived synthesis URL, mainly for tests
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	Options  map[string]string `yaml:"options" json:"options"`
}

// ActivityConfig configures the append-only activity log
type ActivityConfig struct {
	LogPath string `yaml:"log_path" json:"log_path"`
}

// AudioConfig holds audio asset retention settings
type AudioConfig struct {
	// RetentionMinutes bounds how long synthesized assets are kept.
	// Zero disables pruning.
	RetentionMinutes int `yaml:"retention_minutes" json:"retention_minutes"`
	// PruneIntervalMinutes is how often the retention janitor runs.
	PruneIntervalMinutes int `yaml:"prune_interval_minutes" json:"prune_interval_minutes"`
}
