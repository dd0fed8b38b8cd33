package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
server:
  host: "localhost"
  port: 9090
  read_timeout: 10
  write_timeout: 10

storage:
  adapter: "local"
  local:
    base_path: "/tmp/saudispeak-test"

activity:
  log_path: "/tmp/saudispeak-test/user_activity_log.csv"

audio:
  retention_minutes: 30
  prune_interval_minutes: 5

providers:
  analyzer:
    - name: "openrouter"
      enabled: true
      endpoint: "https://openrouter.ai/api/v1"
      model: "google/gemini-2.0-flash-exp:free"
  speech:
    - name: "azure"
      enabled: true
      region: "eastus"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Adapter != "local" {
		t.Errorf("Expected adapter 'local', got '%s'", cfg.Storage.Adapter)
	}
	if cfg.Activity.LogPath != "/tmp/saudispeak-test/user_activity_log.csv" {
		t.Errorf("Unexpected activity log path: %s", cfg.Activity.LogPath)
	}
	if cfg.Audio.RetentionMinutes != 30 {
		t.Errorf("Expected retention 30, got %d", cfg.Audio.RetentionMinutes)
	}
	if len(cfg.Providers.Analyzer) != 1 || cfg.Providers.Analyzer[0].Name != "openrouter" {
		t.Errorf("Unexpected analyzer providers: %+v", cfg.Providers.Analyzer)
	}
	if len(cfg.Providers.Speech) != 1 || cfg.Providers.Speech[0].Region != "eastus" {
		t.Errorf("Unexpected speech providers: %+v", cfg.Providers.Speech)
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
server:
  host: "localhost"
  port: 9090

storage:
  adapter: "local"
  local:
    base_path: "/tmp/saudispeak-test"

activity:
  log_path: "/tmp/saudispeak-test/log.csv"

providers:
  analyzer:
    - name: "openrouter"
      enabled: true
      endpoint: "https://openrouter.ai/api/v1"
      model: "google/gemini-2.0-flash-exp:free"
  speech:
    - name: "azure"
      enabled: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("SSA_SERVER_PORT", "7070")
	t.Setenv("SSA_ANALYZER_OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("SSA_SPEECH_AZURE_API_KEY", "azure-test-key")
	t.Setenv("SSA_SPEECH_AZURE_REGION", "westeurope")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port override 7070, got %d", cfg.Server.Port)
	}
	if cfg.Providers.Analyzer[0].APIKey != "sk-or-test" {
		t.Errorf("Expected analyzer API key override, got '%s'", cfg.Providers.Analyzer[0].APIKey)
	}
	if cfg.Providers.Speech[0].APIKey != "azure-test-key" {
		t.Errorf("Expected speech API key override, got '%s'", cfg.Providers.Speech[0].APIKey)
	}
	if cfg.Providers.Speech[0].Region != "westeurope" {
		t.Errorf("Expected region override, got '%s'", cfg.Providers.Speech[0].Region)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *types.Config {
		cfg := GetDefault()
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*types.Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *types.Config) {},
			wantErr: false,
		},
		{
			name: "invalid port",
			modify: func(c *types.Config) {
				c.Server.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid storage adapter",
			modify: func(c *types.Config) {
				c.Storage.Adapter = "ftp"
			},
			wantErr: true,
		},
		{
			name: "missing local base path",
			modify: func(c *types.Config) {
				c.Storage.Local.BasePath = ""
			},
			wantErr: true,
		},
		{
			name: "relative local base path",
			modify: func(c *types.Config) {
				c.Storage.Local.BasePath = "relative/path"
			},
			wantErr: true,
		},
		{
			name: "missing s3 bucket",
			modify: func(c *types.Config) {
				c.Storage.Adapter = "s3"
				c.Storage.S3.Region = "eu-west-1"
			},
			wantErr: true,
		},
		{
			name: "missing activity log path",
			modify: func(c *types.Config) {
				c.Activity.LogPath = ""
			},
			wantErr: true,
		},
		{
			name: "negative retention",
			modify: func(c *types.Config) {
				c.Audio.RetentionMinutes = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaultsPruneInterval(t *testing.T) {
	cfg := GetDefault()
	cfg.Audio.RetentionMinutes = 30
	cfg.Audio.PruneIntervalMinutes = 0

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Audio.PruneIntervalMinutes != 10 {
		t.Errorf("Expected prune interval default 10, got %d", cfg.Audio.PruneIntervalMinutes)
	}
}
