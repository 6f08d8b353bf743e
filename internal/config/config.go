// Package config implements the layered configuration of SPEC_FULL.md §1:
// defaults, then an optional YAML file, then environment variables, then
// CLI --set overrides decoded via mapstructure — last wins, mirroring the
// teacher's internal/config.Config layering.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// SearchConfig tunes the hybrid search pipeline.
type SearchConfig struct {
	BM25Weight       float64       `yaml:"bm25_weight"`
	SemanticWeight   float64       `yaml:"semantic_weight"`
	RRFConstant      int           `yaml:"rrf_constant"`
	UseRRF           bool          `yaml:"use_rrf"`
	DefaultLimit     int           `yaml:"default_limit"`
	MaxLimit         int           `yaml:"max_limit"`
	EnableExpansion  bool          `yaml:"enable_query_expansion"`
	MaxQueryVariants int           `yaml:"max_query_variants"`
	SearchTimeout    time.Duration `yaml:"search_timeout"`
	ReadPermits      int64         `yaml:"read_permits"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "static" or "openai"
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	CacheSize int    `yaml:"cache_size"`
}

// CacheConfig configures the multi-layer cache (spec.md §4.10).
type CacheConfig struct {
	Backend   string        `yaml:"backend"` // "local" or "redis"
	TTL       time.Duration `yaml:"ttl"`
	LocalSize int           `yaml:"local_size"`
	RedisAddr string        `yaml:"redis_addr"`
}

// IndexingConfig configures the indexing pipeline.
type IndexingConfig struct {
	ChunkSize    int   `yaml:"chunk_size"`
	ChunkOverlap int   `yaml:"chunk_overlap"`
	WritePermits int64 `yaml:"write_permits"`
	EmbedBatch   int   `yaml:"embed_batch"`
}

// ServerConfig configures the HTTP/MCP transport.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig configures on-disk state.
type StorageConfig struct {
	DataDir          string `yaml:"data_dir"`
	CollectionDBPath string `yaml:"collection_db_path"`
}

// Config is the complete service configuration, assembled by Load.
type Config struct {
	DefaultCollection string          `yaml:"default_collection"`
	Search            SearchConfig    `yaml:"search"`
	Embedding         EmbeddingConfig `yaml:"embedding"`
	Cache             CacheConfig     `yaml:"cache"`
	Indexing          IndexingConfig  `yaml:"indexing"`
	Server            ServerConfig    `yaml:"server"`
	Storage           StorageConfig   `yaml:"storage"`
	SentryDSN         string          `yaml:"sentry_dsn"`
}

// Default returns the configuration's zero-input defaults.
func Default() *Config {
	return &Config{
		DefaultCollection: "default",
		Search: SearchConfig{
			BM25Weight:       0.4,
			SemanticWeight:   0.6,
			RRFConstant:      60,
			DefaultLimit:     10,
			MaxLimit:         1000,
			EnableExpansion:  true,
			MaxQueryVariants: 6,
			SearchTimeout:    10 * time.Second,
			ReadPermits:      100,
		},
		Embedding: EmbeddingConfig{
			Provider:  "static",
			Dimension: 384,
			CacheSize: 10000,
		},
		Cache: CacheConfig{
			Backend:   "local",
			TTL:       10 * time.Minute,
			LocalSize: 10000,
		},
		Indexing: IndexingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			WritePermits: 10,
			EmbedBatch:   32,
		},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Storage: StorageConfig{
			DataDir:          "./data",
			CollectionDBPath: "./data/collections.db",
		},
	}
}

// Load builds a Config by layering, in order: defaults, an optional YAML
// file at path (skipped if empty or missing), then environment variable
// overrides. Each layer wins over the previous one.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeYAMLFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return svcerrors.Configuration("read config file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return svcerrors.Configuration("parse config file", err)
	}
	return nil
}

// applyEnvOverrides mirrors the teacher's AMANMCP_* env var convention,
// renamed to DOCSEARCH_*.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOCSEARCH_BM25_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.BM25Weight = f
		}
	}
	if v := os.Getenv("DOCSEARCH_SEMANTIC_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.SemanticWeight = f
		}
	}
	if v := os.Getenv("DOCSEARCH_RRF_CONSTANT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.RRFConstant = n
		}
	}
	if v := os.Getenv("DOCSEARCH_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("DOCSEARCH_EMBEDDING_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("DOCSEARCH_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("DOCSEARCH_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("DOCSEARCH_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("DOCSEARCH_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("DOCSEARCH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("DOCSEARCH_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("DOCSEARCH_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("DOCSEARCH_DEFAULT_COLLECTION"); v != "" {
		c.DefaultCollection = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		c.SentryDSN = v
	}
}

// Validate checks invariants spec.md §6 and §7 require at startup.
func (c *Config) Validate() error {
	if c.Search.BM25Weight < 0 || c.Search.SemanticWeight < 0 {
		return svcerrors.Configuration("search weights must be non-negative", nil)
	}
	if c.Search.DefaultLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return svcerrors.Configuration("default_limit must be within (0, max_limit]", nil)
	}
	if c.Embedding.Dimension <= 0 {
		return svcerrors.Configuration("embedding dimension must be positive", nil)
	}
	if c.Embedding.Provider != "static" && c.Embedding.Provider != "openai" {
		return svcerrors.Configuration("embedding provider must be \"static\" or \"openai\"", nil)
	}
	if c.Cache.Backend != "local" && c.Cache.Backend != "redis" {
		return svcerrors.Configuration("cache backend must be \"local\" or \"redis\"", nil)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return svcerrors.Configuration("redis_addr is required when cache backend is \"redis\"", nil)
	}
	return nil
}
