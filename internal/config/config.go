// Package config loads application configuration from a TOML file with
// environment variable overrides. Environment always wins over file
// values; file values win over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultListenAddr = ":8000"
	DefaultWindowSize = 1000
	DefaultOverlap    = 200
	DefaultTopK       = 5
	DefaultDimensions = 384
	DefaultProvider   = "ollama"
	DefaultOllamaURL  = "http://localhost:11434"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Storage   StorageConfig   `toml:"storage"`
	Prompts   PromptsConfig   `toml:"prompts"`
	Watch     WatchConfig     `toml:"watch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `toml:"listen_addr"`
}

// ChunkingConfig configures the text splitter.
type ChunkingConfig struct {
	// WindowSize is the chunk window size in characters.
	WindowSize int `toml:"window_size"`

	// Overlap is the number of characters shared between consecutive
	// windows. Must be smaller than WindowSize.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures nearest-neighbour retrieval.
type RetrievalConfig struct {
	// TopK is the number of chunks retrieved per query.
	TopK int `toml:"top_k"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the backend: "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions"`

	// APIKey is the provider API key (OpenAI only). Prefer setting it
	// via OPENAI_API_KEY instead of the config file.
	APIKey string `toml:"api_key"`
}

// LLMConfig configures the answer-generation provider.
type LLMConfig struct {
	// Provider selects the backend: "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the chat model name.
	Model string `toml:"model"`

	// APIKey is the provider API key (OpenAI only).
	APIKey string `toml:"api_key"`
}

// StorageConfig configures the on-disk stores.
type StorageConfig struct {
	// DataDir holds metadata.db and vectors.db. Defaults to
	// ~/.docsage/data.
	DataDir string `toml:"data_dir"`
}

// PromptsConfig configures prompt template loading.
type PromptsConfig struct {
	// Dir holds user-editable prompt files. Defaults to
	// ~/.docsage/prompts.
	Dir string `toml:"dir"`
}

// WatchConfig configures the inbox directory watcher.
type WatchConfig struct {
	// Dir is the directory watched for new PDF files. Empty disables
	// watching unless --watch is passed with a directory.
	Dir string `toml:"dir"`
}

// Default returns the configuration with all defaults applied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Chunking: ChunkingConfig{
			WindowSize: DefaultWindowSize,
			Overlap:    DefaultOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK: DefaultTopK,
		},
		Embedding: EmbeddingConfig{
			Provider:   DefaultProvider,
			BaseURL:    DefaultOllamaURL,
			Dimensions: DefaultDimensions,
		},
		LLM: LLMConfig{
			Provider: DefaultProvider,
			BaseURL:  DefaultOllamaURL,
		},
	}
}

// Load reads configuration from the given TOML file, if present, then
// applies environment overrides. A missing file is not an error; the
// defaults plus environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".docsage", "config.toml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	c.Server.ListenAddr = getEnv("DOCSAGE_LISTEN_ADDR", c.Server.ListenAddr)
	c.Chunking.WindowSize = getEnvInt("DOCSAGE_CHUNK_SIZE", c.Chunking.WindowSize)
	c.Chunking.Overlap = getEnvInt("DOCSAGE_CHUNK_OVERLAP", c.Chunking.Overlap)
	c.Retrieval.TopK = getEnvInt("DOCSAGE_TOP_K", c.Retrieval.TopK)

	c.Embedding.Provider = getEnv("DOCSAGE_EMBEDDING_PROVIDER", c.Embedding.Provider)
	c.Embedding.BaseURL = getEnv("DOCSAGE_EMBEDDING_URL", c.Embedding.BaseURL)
	c.Embedding.Model = getEnv("DOCSAGE_EMBEDDING_MODEL", c.Embedding.Model)
	c.Embedding.Dimensions = getEnvInt("DOCSAGE_EMBEDDING_DIMENSIONS", c.Embedding.Dimensions)

	c.LLM.Provider = getEnv("DOCSAGE_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.BaseURL = getEnv("DOCSAGE_LLM_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("DOCSAGE_LLM_MODEL", c.LLM.Model)

	c.Storage.DataDir = getEnv("DOCSAGE_DATA_DIR", c.Storage.DataDir)
	c.Prompts.Dir = getEnv("DOCSAGE_PROMPTS_DIR", c.Prompts.Dir)
	c.Watch.Dir = getEnv("DOCSAGE_WATCH_DIR", c.Watch.Dir)

	// The OpenAI key is shared between the embedding and LLM sections.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = key
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Chunking.WindowSize <= 0 {
		return fmt.Errorf("chunking.window_size must be positive, got %d", c.Chunking.WindowSize)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.WindowSize {
		return fmt.Errorf("chunking.overlap (%d) must be smaller than window_size (%d)",
			c.Chunking.Overlap, c.Chunking.WindowSize)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("embedding.provider must be \"ollama\" or \"openai\", got %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("llm.provider must be \"ollama\" or \"openai\", got %q", c.LLM.Provider)
	}
	return nil
}

// DataDir resolves the storage directory, defaulting under the home
// directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".docsage", "data"), nil
}

// getEnv returns the environment value if set, otherwise the fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns the environment value parsed as an int, otherwise
// the fallback. Unparseable values fall back silently.
func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
