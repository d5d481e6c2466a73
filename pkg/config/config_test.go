package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestCacheConfigValidate(t *testing.T) {
	require.Error(t, CacheConfig{PageNum: 0, PageSize: 1}.Validate())
	require.Error(t, CacheConfig{PageNum: 1, PageSize: 0}.Validate())
	require.NoError(t, CacheConfig{PageNum: 1, PageSize: 1}.Validate())
}

func TestCatalogConfigValidate(t *testing.T) {
	require.Error(t, CatalogConfig{NumSampledEdge: 0, MaxInputNumVertices: 3}.Validate())
	require.Error(t, CatalogConfig{NumSampledEdge: 10, MaxInputNumVertices: 1}.Validate())
	require.NoError(t, CatalogConfig{NumSampledEdge: 10, MaxInputNumVertices: 3}.Validate())
}

func TestPlannerConfigValidate(t *testing.T) {
	require.Error(t, PlannerConfig{NumTopPlansKept: 0}.Validate())
	require.Error(t, PlannerConfig{NumTopPlansKept: 5, HasLimit: true, OutTuplesLimit: 0}.Validate())
	require.NoError(t, PlannerConfig{NumTopPlansKept: 5, HasLimit: true, OutTuplesLimit: 10}.Validate())
	require.NoError(t, PlannerConfig{NumTopPlansKept: 5}.Validate())
}

func TestRPCConfigValidate(t *testing.T) {
	base := Default().RPC
	require.NoError(t, base.Validate())

	bad := base
	bad.SelfProcessor = base.Machines
	require.Error(t, bad.Validate())

	bad = base
	bad.MaxRetryDelay = 0
	require.Error(t, bad.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GRAPHLIB_CACHE_PAGE_NUM", "32")
	t.Setenv("GRAPHLIB_RPC_MACHINES", "3")
	t.Setenv("GRAPHLIB_RPC_SELF_PROCESSOR", "1")

	c := LoadFromEnv()
	require.Equal(t, 32, c.Cache.PageNum)
	require.Equal(t, 3, c.RPC.Machines)
	require.Equal(t, 1, c.RPC.SelfProcessor)
	require.NoError(t, c.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := []byte("cache:\n  page_num: 64\n  page_size: 128\ncatalog:\n  num_sampled_edge: 500\n  max_input_num_vertices: 4\n")
	require.NoError(t, os.WriteFile(path, yamlContent, 0o644))

	cfg := Default()
	require.NoError(t, LoadFromYAML(cfg, path))

	require.Equal(t, 64, cfg.Cache.PageNum)
	require.Equal(t, 128, cfg.Cache.PageSize)
	require.Equal(t, 500, cfg.Catalog.NumSampledEdge)
	require.Equal(t, 4, cfg.Catalog.MaxInputNumVertices)
	// Unset sections retain their Default() values.
	require.Equal(t, Default().Planner, cfg.Planner)
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	err := LoadFromYAML(Default(), "/nonexistent/path.yaml")
	require.Error(t, err)
}
