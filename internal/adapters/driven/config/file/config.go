// Package file provides file-based configuration using TOML, with
// secrets overlaid from the environment (optionally via a .env file).
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/splitter"
)

// ConfigFileName is the TOML file name inside the config directory.
const ConfigFileName = "config.toml"

// Environment variable names for secrets. Secrets never live in the
// TOML file; they come from the environment or a .env file next to it.
const (
	EnvSupabaseURL  = "SUPABASE_URL"
	EnvSupabaseKey  = "SUPABASE_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvAdminPass    = "ADMIN_PASS"
)

// Config is the application configuration.
type Config struct {
	Remote    RemoteConfig    `toml:"remote"`
	Paths     PathsConfig     `toml:"paths"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// RemoteConfig locates the remote document bucket. The API key is
// environment-only and never serialised.
type RemoteConfig struct {
	ProjectURL string `toml:"project_url"`
	Bucket     string `toml:"bucket"`
	APIKey     string `toml:"-"`
}

// PathsConfig holds local filesystem locations.
type PathsConfig struct {
	// DataDir is the root for the document cache, the index and the
	// metadata database. Empty means ~/.deptchat.
	DataDir string `toml:"data_dir"`
}

// ChunkingConfig tunes the text splitter.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig tunes the answering service.
type RetrievalConfig struct {
	TopK            int     `toml:"top_k"`
	MaxContextChars int     `toml:"max_context_chars"`
	Temperature     float64 `toml:"temperature"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	APIKey     string `toml:"-"`
}

// LLMConfig selects and tunes the answer-generating backend.
type LLMConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	APIKey   string `toml:"-"`
}

// SchedulerConfig controls the background sync loop.
type SchedulerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			Bucket: "pdfs",
		},
		Chunking: ChunkingConfig{
			Size:    splitter.DefaultChunkSize,
			Overlap: splitter.DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:            10,
			MaxContextChars: 6000,
			Temperature:     0.3,
		},
		Embedding: EmbeddingConfig{
			Provider: domain.AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMConfig{
			Provider: domain.AIProviderOllama,
			Model:    "phi3",
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			IntervalMinutes: 120,
		},
	}
}

// Load reads the configuration from configDir, creating defaults when
// the file does not exist, then overlays secrets from the environment.
// If configDir is empty, defaults to ~/.deptchat.
func Load(configDir string) (Config, string, error) {
	cfg := DefaultConfig()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".deptchat")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return cfg, "", fmt.Errorf("creating config directory: %w", err)
	}

	// A .env next to the config file is optional.
	_ = godotenv.Load(filepath.Join(configDir, ".env"))

	path := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := Save(configDir, cfg); err != nil {
			return cfg, "", err
		}
	case err != nil:
		return cfg, "", fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, "", fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnvironment()

	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = configDir
	}

	return cfg, path, nil
}

// Save writes the configuration to configDir with restricted permissions.
func Save(configDir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, ConfigFileName), data, 0600)
}

// applyEnvironment overlays secrets and remote settings from the
// environment. Environment values win over file values.
func (c *Config) applyEnvironment() {
	if v := os.Getenv(EnvSupabaseURL); v != "" {
		c.Remote.ProjectURL = v
	}
	if v := os.Getenv(EnvSupabaseKey); v != "" {
		c.Remote.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" {
		c.Embedding.APIKey = v
		c.LLM.APIKey = v
	}
}

// AdminPass returns the configured admin password from the environment.
// Empty means the admin surface is disabled.
func AdminPass() string {
	return os.Getenv(EnvAdminPass)
}

// CorpusDir is where synced documents are cached.
func (c Config) CorpusDir() string {
	return filepath.Join(c.Paths.DataDir, "docs")
}

// IndexDir is where the persisted vector index lives.
func (c Config) IndexDir() string {
	return filepath.Join(c.Paths.DataDir, "index")
}

// MetadataDir is where the SQLite metadata database lives.
func (c Config) MetadataDir() string {
	return filepath.Join(c.Paths.DataDir, "data")
}

// SyncInterval returns the scheduler interval as a duration.
func (c Config) SyncInterval() time.Duration {
	if c.Scheduler.IntervalMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// EmbeddingSettings converts to the domain settings type.
func (c Config) EmbeddingSettings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider:   c.Embedding.Provider,
		BaseURL:    c.Embedding.BaseURL,
		APIKey:     c.Embedding.APIKey,
		Model:      c.Embedding.Model,
		Dimensions: c.Embedding.Dimensions,
	}
}

// LLMSettings converts to the domain settings type.
func (c Config) LLMSettings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: c.LLM.Provider,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   c.LLM.APIKey,
		Model:    c.LLM.Model,
	}
}

// SchedulerSettings converts to the domain scheduler config.
func (c Config) SchedulerSettings() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled:      c.Scheduler.Enabled,
		SyncInterval: c.SyncInterval(),
	}
}
