package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration file.
// It also supports environment variable overrides with SSA_ prefix, which is
// where deployments are expected to supply the API secrets.
func Load(configPath string) (*types.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func Validate(cfg *types.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Storage.Adapter != "local" && cfg.Storage.Adapter != "s3" {
		return fmt.Errorf("invalid storage adapter: %s (must be 'local' or 's3')", cfg.Storage.Adapter)
	}

	if cfg.Storage.Adapter == "local" {
		if cfg.Storage.Local.BasePath == "" {
			return fmt.Errorf("local storage base_path is required")
		}
		if !filepath.IsAbs(cfg.Storage.Local.BasePath) {
			return fmt.Errorf("local storage base_path must be absolute: %s", cfg.Storage.Local.BasePath)
		}
	}

	if cfg.Storage.Adapter == "s3" {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	}

	if cfg.Activity.LogPath == "" {
		return fmt.Errorf("activity log_path is required")
	}

	if cfg.Audio.RetentionMinutes < 0 {
		return fmt.Errorf("audio retention_minutes must not be negative")
	}
	if cfg.Audio.RetentionMinutes > 0 && cfg.Audio.PruneIntervalMinutes <= 0 {
		cfg.Audio.PruneIntervalMinutes = 10 // default
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides
// Environment variables are prefixed with SSA_ (Saudi Speak App)
func applyEnvOverrides(cfg *types.Config) {
	if val := os.Getenv("SSA_SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("SSA_SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &cfg.Server.Port)
	}

	if val := os.Getenv("SSA_STORAGE_ADAPTER"); val != "" {
		cfg.Storage.Adapter = val
	}
	if val := os.Getenv("SSA_STORAGE_LOCAL_BASE_PATH"); val != "" {
		cfg.Storage.Local.BasePath = val
	}
	if val := os.Getenv("SSA_STORAGE_S3_BUCKET"); val != "" {
		cfg.Storage.S3.Bucket = val
	}
	if val := os.Getenv("SSA_STORAGE_S3_REGION"); val != "" {
		cfg.Storage.S3.Region = val
	}
	if val := os.Getenv("SSA_STORAGE_S3_ENDPOINT"); val != "" {
		cfg.Storage.S3.Endpoint = val
	}
	if val := os.Getenv("SSA_STORAGE_S3_ACCESS_KEY_ID"); val != "" {
		cfg.Storage.S3.AccessKeyID = val
	}
	if val := os.Getenv("SSA_STORAGE_S3_SECRET_ACCESS_KEY"); val != "" {
		cfg.Storage.S3.SecretAccessKey = val
	}

	if val := os.Getenv("SSA_ACTIVITY_LOG_PATH"); val != "" {
		cfg.Activity.LogPath = val
	}

	applyProviderEnvOverrides(cfg)
}

// applyProviderEnvOverrides applies provider-specific env vars. Keys and the
// speech region are secrets and normally arrive this way rather than in YAML.
func applyProviderEnvOverrides(cfg *types.Config) {
	for i := range cfg.Providers.Analyzer {
		prefix := fmt.Sprintf("SSA_ANALYZER_%s_", strings.ToUpper(cfg.Providers.Analyzer[i].Name))
		if val := os.Getenv(prefix + "API_KEY"); val != "" {
			cfg.Providers.Analyzer[i].APIKey = val
		}
		if val := os.Getenv(prefix + "ENDPOINT"); val != "" {
			cfg.Providers.Analyzer[i].Endpoint = val
		}
		if val := os.Getenv(prefix + "MODEL"); val != "" {
			cfg.Providers.Analyzer[i].Model = val
		}
	}

	for i := range cfg.Providers.Speech {
		prefix := fmt.Sprintf("SSA_SPEECH_%s_", strings.ToUpper(cfg.Providers.Speech[i].Name))
		if val := os.Getenv(prefix + "API_KEY"); val != "" {
			cfg.Providers.Speech[i].APIKey = val
		}
		if val := os.Getenv(prefix + "REGION"); val != "" {
			cfg.Providers.Speech[i].Region = val
		}
		if val := os.Getenv(prefix + "ENDPOINT"); val != "" {
			cfg.Providers.Speech[i].Endpoint = val
		}
	}
}

// GetDefault returns a default configuration
func GetDefault() *types.Config {
	return &types.Config{
		Server: types.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15,
			WriteTimeout: 15,
		},
		Storage: types.StorageConfig{
			Adapter: "local",
			Local: types.LocalStorageOpts{
				BasePath: "/var/lib/saudispeak/storage",
			},
		},
		Activity: types.ActivityConfig{
			LogPath: "/var/lib/saudispeak/user_activity_log.csv",
		},
		Audio: types.AudioConfig{
			RetentionMinutes:     60,
			PruneIntervalMinutes: 10,
		},
	}
}
