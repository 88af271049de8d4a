package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the careerpilot index service.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Extract   ExtractConfig   `yaml:"extract"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Recommend RecommendConfig `yaml:"recommend"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig controls how extracted text is split before embedding.
type ChunkingConfig struct {
	Mode    string `yaml:"mode"`    // "word" or "recursive"
	Size    int    `yaml:"size"`    // words (word mode) or characters (recursive mode)
	Overlap int    `yaml:"overlap"` // must be smaller than Size
}

// ExtractConfig controls document text extraction.
type ExtractConfig struct {
	// UniDocLicenseEnv names the environment variable holding the UniDoc
	// metered key needed for .pdf, .docx and .xlsx sources.
	UniDocLicenseEnv string `yaml:"unidoc_license_env"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"` // "openai", "local"
	Model             string  `yaml:"model"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	BaseURL           string  `yaml:"base_url"`
	Dimension         int     `yaml:"dimension"`
	ModelPath         string  `yaml:"model_path"` // optional weights file for the local model
	TimeoutSecs       int     `yaml:"timeout_secs"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 = unlimited
}

// RetrieveConfig holds query configuration.
type RetrieveConfig struct {
	TopK         int `yaml:"top_k"`
	CacheSize    int `yaml:"cache_size"`
	CacheTTLSecs int `yaml:"cache_ttl_secs"`
}

// RecommendConfig holds job recommendation configuration.
type RecommendConfig struct {
	JobsFile           string `yaml:"jobs_file"`
	NumRecommendations int    `yaml:"num_recommendations"`
	MinSkillLen        int    `yaml:"min_skill_len"` // 0 keeps plain substring matching
}

// ServerConfig holds MCP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"` // empty = stdio
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".careerpilot",
		Chunking: ChunkingConfig{
			Mode:    "word",
			Size:    500,
			Overlap: 50,
		},
		Extract: ExtractConfig{
			UniDocLicenseEnv: "UNIDOC_LICENSE_API_KEY",
		},
		Embedding: EmbeddingConfig{
			Provider:          "local",
			Model:             "text-embedding-3-small", // remote providers only
			APIKeyEnv:         "OPENAI_API_KEY",
			Dimension:         384,
			TimeoutSecs:       60,
			BatchSize:         100,
			RequestsPerSecond: 0,
		},
		Retrieve: RetrieveConfig{
			TopK:         5,
			CacheSize:    100,
			CacheTTLSecs: 300,
		},
		Recommend: RecommendConfig{
			JobsFile:           "jobs.json",
			NumRecommendations: 5,
			MinSkillLen:        0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for careerpilot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "careerpilot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".careerpilot", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Timeout returns the remote embedding request timeout.
func (e EmbeddingConfig) Timeout() time.Duration {
	if e.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(e.TimeoutSecs) * time.Second
}

// CacheTTL returns the query cache entry lifetime.
func (r RetrieveConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSecs) * time.Second
}

// ResolveDataDir returns the data directory, relative paths resolved against root.
func (c *Config) ResolveDataDir(root string) string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(root, c.DataDir)
}

// IndexPaths returns the vector blob and document blob paths for a corpus.
func IndexPaths(dataDir, corpus string) (vectorPath, docPath string) {
	return filepath.Join(dataDir, corpus+".vec"), filepath.Join(dataDir, corpus+".db")
}

// JobsPath returns the path of the job-record collection.
func (c *Config) JobsPath(dataDir string) string {
	if filepath.IsAbs(c.Recommend.JobsFile) {
		return c.Recommend.JobsFile
	}
	return filepath.Join(dataDir, c.Recommend.JobsFile)
}

// EnsureDataDir ensures the data directory exists.
func EnsureDataDir(dataDir string) error {
	return os.MkdirAll(dataDir, 0755)
}
