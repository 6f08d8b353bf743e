package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.DefaultCollection)
	assert.Equal(t, 0.4, cfg.Search.BM25Weight)
}

func TestLoad_YAMLFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_collection: mydocs\nsearch:\n  bm25_weight: 0.7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mydocs", cfg.DefaultCollection)
	assert.Equal(t, 0.7, cfg.Search.BM25Weight)
}

func TestLoad_MissingFile_FallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.DefaultCollection)
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  bm25_weight: 0.7\n"), 0o644))

	t.Setenv("DOCSEARCH_BM25_WEIGHT", "0.9")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Search.BM25Weight)
}

func TestValidate_RejectsUnknownEmbeddingProvider(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsRedisBackendWithoutAddr(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "redis"
	assert.Error(t, cfg.Validate())
}

func TestApplySetOverrides_DecodesDottedPathIntoNestedConfig(t *testing.T) {
	cfg := Default()
	require.NoError(t, ApplySetOverrides(cfg, []string{"search.bm25_weight=0.55", "server.port=9090"}))
	assert.Equal(t, 0.55, cfg.Search.BM25Weight)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestApplySetOverrides_RejectsMalformedPair(t *testing.T) {
	cfg := Default()
	assert.Error(t, ApplySetOverrides(cfg, []string{"no-equals-sign"}))
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.DefaultCollection = "roundtrip"
	path := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, WriteYAML(cfg, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", loaded.DefaultCollection)
}
