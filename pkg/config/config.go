// Package config loads the engine's component configurations: Cache,
// Catalog, Planner, Scan Blocking, and the RPC client. Each is a small
// typed struct with an explicit Validate, loaded first from environment
// variables and then, if a path is given, overlaid from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheConfig configures the concurrent cache.
type CacheConfig struct {
	PageNum  int `yaml:"page_num"`
	PageSize int `yaml:"page_size"`
}

// Validate checks that both dimensions are positive.
func (c CacheConfig) Validate() error {
	if c.PageNum <= 0 {
		return fmt.Errorf("cache: page_num must be positive, got %d", c.PageNum)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("cache: page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

// CatalogConfig configures catalog sampling.
type CatalogConfig struct {
	NumSampledEdge     int `yaml:"num_sampled_edge"`
	MaxInputNumVertices int `yaml:"max_input_num_vertices"`
}

// Validate checks both sampling bounds are positive.
func (c CatalogConfig) Validate() error {
	if c.NumSampledEdge <= 0 {
		return fmt.Errorf("catalog: num_sampled_edge must be positive, got %d", c.NumSampledEdge)
	}
	if c.MaxInputNumVertices < 2 {
		return fmt.Errorf("catalog: max_input_num_vertices must be >= 2, got %d", c.MaxInputNumVertices)
	}
	return nil
}

// PlannerConfig configures plan enumeration.
type PlannerConfig struct {
	NumTopPlansKept int  `yaml:"num_top_plans_kept"`
	HasLimit        bool `yaml:"has_limit"`
	OutTuplesLimit  int  `yaml:"out_tuples_limit"`
}

// Validate checks NumTopPlansKept is positive and that OutTuplesLimit
// is set whenever HasLimit is true.
func (c PlannerConfig) Validate() error {
	if c.NumTopPlansKept <= 0 {
		return fmt.Errorf("planner: num_top_plans_kept must be positive, got %d", c.NumTopPlansKept)
	}
	if c.HasLimit && c.OutTuplesLimit <= 0 {
		return fmt.Errorf("planner: out_tuples_limit must be positive when has_limit is set")
	}
	return nil
}

// ScanBlockingConfig configures a parallel scan's shared range
// reservation.
type ScanBlockingConfig struct {
	PartitionSize int `yaml:"partition_size"`
}

// Validate checks PartitionSize is positive.
func (c ScanBlockingConfig) Validate() error {
	if c.PartitionSize <= 0 {
		return fmt.Errorf("scan_blocking: partition_size must be positive, got %d", c.PartitionSize)
	}
	return nil
}

// RPCConfig configures the RPC graph client.
type RPCConfig struct {
	Port            int           `yaml:"port"`
	Workers         int           `yaml:"workers"`
	Machines        int           `yaml:"machines"`
	SelfProcessor   int           `yaml:"self_processor"`
	HostsPath       string        `yaml:"hosts_path"`
	MaxRetry        int           `yaml:"max_retry"`
	MinRetryDelay   time.Duration `yaml:"min_retry_delay"`
	MaxRetryDelay   time.Duration `yaml:"max_retry_delay"`
}

// Validate checks the routing parameters are consistent: positive
// worker/machine counts, SelfProcessor in range, and a sane retry
// backoff window.
func (c RPCConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("rpc: workers must be positive, got %d", c.Workers)
	}
	if c.Machines <= 0 {
		return fmt.Errorf("rpc: machines must be positive, got %d", c.Machines)
	}
	if c.SelfProcessor < 0 || c.SelfProcessor >= c.Machines {
		return fmt.Errorf("rpc: self_processor %d out of range [0,%d)", c.SelfProcessor, c.Machines)
	}
	if c.MaxRetry <= 0 {
		return fmt.Errorf("rpc: max_retry must be positive, got %d", c.MaxRetry)
	}
	if c.MinRetryDelay <= 0 || c.MaxRetryDelay < c.MinRetryDelay {
		return fmt.Errorf("rpc: retry delay window invalid (min=%s max=%s)", c.MinRetryDelay, c.MaxRetryDelay)
	}
	return nil
}

// Config aggregates every component configuration.
type Config struct {
	Cache        CacheConfig        `yaml:"cache"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Planner      PlannerConfig      `yaml:"planner"`
	ScanBlocking ScanBlockingConfig `yaml:"scan_blocking"`
	RPC          RPCConfig          `yaml:"rpc"`
}

// Validate runs every sub-config's Validate.
func (c *Config) Validate() error {
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Planner.Validate(); err != nil {
		return err
	}
	if err := c.ScanBlocking.Validate(); err != nil {
		return err
	}
	if err := c.RPC.Validate(); err != nil {
		return err
	}
	return nil
}

// Default returns every component's documented defaults.
func Default() *Config {
	return &Config{
		Cache:        CacheConfig{PageNum: 16, PageSize: 4096},
		Catalog:      CatalogConfig{NumSampledEdge: 1000, MaxInputNumVertices: 3},
		Planner:      PlannerConfig{NumTopPlansKept: 5, HasLimit: false},
		ScanBlocking: ScanBlockingConfig{PartitionSize: 100},
		RPC: RPCConfig{
			Port:          7070,
			Workers:       1,
			Machines:      1,
			SelfProcessor: 0,
			MaxRetry:      5,
			MinRetryDelay: 50 * time.Millisecond,
			MaxRetryDelay: 5 * time.Second,
		},
	}
}

// LoadFromEnv builds a Config from GRAPHLIB_* environment variables,
// falling back to Default() for anything unset.
func LoadFromEnv() *Config {
	c := Default()

	c.Cache.PageNum = getEnvInt("GRAPHLIB_CACHE_PAGE_NUM", c.Cache.PageNum)
	c.Cache.PageSize = getEnvInt("GRAPHLIB_CACHE_PAGE_SIZE", c.Cache.PageSize)

	c.Catalog.NumSampledEdge = getEnvInt("GRAPHLIB_CATALOG_NUM_SAMPLED_EDGE", c.Catalog.NumSampledEdge)
	c.Catalog.MaxInputNumVertices = getEnvInt("GRAPHLIB_CATALOG_MAX_INPUT_NUM_VERTICES", c.Catalog.MaxInputNumVertices)

	c.Planner.NumTopPlansKept = getEnvInt("GRAPHLIB_PLANNER_NUM_TOP_PLANS_KEPT", c.Planner.NumTopPlansKept)
	c.Planner.HasLimit = getEnvBool("GRAPHLIB_PLANNER_HAS_LIMIT", c.Planner.HasLimit)
	c.Planner.OutTuplesLimit = getEnvInt("GRAPHLIB_PLANNER_OUT_TUPLES_LIMIT", c.Planner.OutTuplesLimit)

	c.ScanBlocking.PartitionSize = getEnvInt("GRAPHLIB_SCAN_BLOCKING_PARTITION_SIZE", c.ScanBlocking.PartitionSize)

	c.RPC.Port = getEnvInt("GRAPHLIB_RPC_PORT", c.RPC.Port)
	c.RPC.Workers = getEnvInt("GRAPHLIB_RPC_WORKERS", c.RPC.Workers)
	c.RPC.Machines = getEnvInt("GRAPHLIB_RPC_MACHINES", c.RPC.Machines)
	c.RPC.SelfProcessor = getEnvInt("GRAPHLIB_RPC_SELF_PROCESSOR", c.RPC.SelfProcessor)
	c.RPC.HostsPath = getEnv("GRAPHLIB_RPC_HOSTS_PATH", c.RPC.HostsPath)
	c.RPC.MaxRetry = getEnvInt("GRAPHLIB_RPC_MAX_RETRY", c.RPC.MaxRetry)
	c.RPC.MinRetryDelay = getEnvDuration("GRAPHLIB_RPC_MIN_RETRY_DELAY", c.RPC.MinRetryDelay)
	c.RPC.MaxRetryDelay = getEnvDuration("GRAPHLIB_RPC_MAX_RETRY_DELAY", c.RPC.MaxRetryDelay)

	return c
}

// LoadFromYAML overlays cfg with values from the YAML file at path.
// Fields absent from the file are left unchanged. Used for long-lived
// service configuration where an env-only surface is too coarse (the
// full Cache/Catalog/Planner/ScanBlocking/RPC object graph).
func LoadFromYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// Environment variable parsing helpers.

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
