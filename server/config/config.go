package config

import (
	"os"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Metadata MetadataConfig `yaml:"metadata"`
	AI       AIConfig       `yaml:"ai"`
	Auth     AuthConfig     `yaml:"auth"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`    // "json" or "console"
	FilePath string `yaml:"file_path"` // Path to log file
	Console  bool   `yaml:"console"`   // Whether to log to console
	Cleanup  bool   `yaml:"cleanup"`   // Whether to truncate the log file on startup
}

// StorageConfig describes where per-user databases live and which backend serves them.
type StorageConfig struct {
	// Backend selects the per-user database backend: "sqlite" or "postgres".
	Backend string `yaml:"backend"`
	// DataPath is the root directory for per-user sqlite files.
	DataPath string `yaml:"data_path"`
	// PostgresDSN is the base DSN for the postgres backend; each user is
	// isolated in their own schema on top of it.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// MetadataConfig describes the application metadata store (users, credentials,
// query history, generated-table records).
type MetadataConfig struct {
	Path string `yaml:"path"`
}

// AIConfig holds provider selection and model defaults. Per-user API keys are
// not configured here; they live encrypted in the metadata store.
type AIConfig struct {
	Provider   string `yaml:"provider"` // "gemini", "openai", "ollama"
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
}

// AuthConfig holds authentication and encryption settings.
type AuthConfig struct {
	// EncryptionKey is the hex-encoded 32-byte key used to encrypt stored
	// AI credentials. The SQLCANVAS_ENCRYPTION_KEY env var takes precedence.
	EncryptionKey string `yaml:"encryption_key"`
	// SessionTTLMinutes bounds how long a login session stays valid.
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			Format:   "console",
			FilePath: "logs/sqlcanvas-server.log",
			Console:  true,
			Cleanup:  true,
		},
		Storage: StorageConfig{
			Backend:  "sqlite",
			DataPath: "./data/user_dbs",
		},
		Metadata: MetadataConfig{
			Path: "./data/sqlcanvas.db",
		},
		AI: AIConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			OllamaHost: "http://localhost:11434",
		},
		Auth: AuthConfig{
			SessionTTLMinutes: 720,
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return errors.New(ErrStorageValidationFailed, "storage validation failed", err)
	}
	if c.Metadata.Path == "" {
		return errors.New(ErrMetadataPathRequired, "metadata path is required", nil)
	}
	if err := c.AI.Validate(); err != nil {
		return errors.New(ErrAIValidationFailed, "ai validation failed", err)
	}
	return nil
}

// Validate validates the storage configuration
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "sqlite":
		if s.DataPath == "" {
			return errors.New(ErrDataPathRequired, "data_path is required for the sqlite backend", nil)
		}
	case "postgres":
		if s.PostgresDSN == "" {
			return errors.New(ErrPostgresDSNRequired, "postgres_dsn is required for the postgres backend", nil)
		}
	case "":
		return errors.New(ErrBackendRequired, "storage backend is required", nil)
	default:
		return errors.Newf(ErrBackendUnknown, "unknown storage backend %q", s.Backend)
	}
	return nil
}

// Validate validates the AI configuration
func (a *AIConfig) Validate() error {
	switch a.Provider {
	case "gemini", "openai", "ollama", "":
		return nil
	default:
		return errors.Newf(ErrAIProviderUnknown, "unknown ai provider %q", a.Provider)
	}
}

// GetEncryptionKey returns the credential encryption key, preferring the
// environment over the config file.
func (c *Config) GetEncryptionKey() string {
	if key := os.Getenv("SQLCANVAS_ENCRYPTION_KEY"); key != "" {
		return key
	}
	return c.Auth.EncryptionKey
}

// GetHTTPPort returns the fixed HTTP server port
func (c *Config) GetHTTPPort() int {
	return HTTP_SERVER_PORT
}

// GetHTTPAddress returns the HTTP server bind address
func (c *Config) GetHTTPAddress() string {
	return DEFAULT_SERVER_ADDRESS
}

// GetStoragePath returns the per-user database root
func (c *Config) GetStoragePath() string {
	return c.Storage.DataPath
}

// GetMetadataPath returns the metadata store path
func (c *Config) GetMetadataPath() string {
	return c.Metadata.Path
}
