package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
)

// Database drivers.
const (
	DriverRedis   = "redis"   // rueidis
	DriverGoRedis = "goredis" // go-redis/v9
)

// DefaultRedisURL is used when neither database.url nor REDIS_URL is set.
const DefaultRedisURL = "redis://localhost:6379"

// Config holds the fantom configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds key-value store connection settings.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // redis, goredis (default: redis)
	URL              string `yaml:"url"`
	DB               *int   `yaml:"db"` // logical database (default: 5)
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds scan and ranking settings.
type SearchConfig struct {
	KeyPattern        string `yaml:"key_pattern"`
	TopN              int    `yaml:"top_n"`
	FallbackAlgorithm string `yaml:"fallback_algorithm"`
	TimeoutSec        int    `yaml:"timeout_sec"`
	ScanCount         int64  `yaml:"scan_count"`
	ScoreWorkers      int    `yaml:"score_workers"`
	UsersPath         string `yaml:"users_path"`
}

// EmbeddingConfig holds the embeddings provider used by the semantic algorithm.
// An empty APIKey disables it.
type EmbeddingConfig struct {
	Provider   string       `yaml:"provider"`
	APIKey     string       `yaml:"api_key"`
	BaseURL    string       `yaml:"base_url"`
	Model      string       `yaml:"model"`
	Dimensions int          `yaml:"dimensions"`
	Cache      CacheConfig  `yaml:"cache"`
	Budget     BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds the embedding token budget. Counters persist in the
// cache database when the cache is enabled, in memory otherwise.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // warn | reject
}

// Enabled reports whether any token limit is set.
func (b BudgetConfig) Enabled() bool {
	return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0
}

// CacheConfig holds the Redis embedding cache settings. The cache uses the
// database URL with its own logical database.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	DB      int  `yaml:"db"`      // default: 6
	TTLSec  int  `yaml:"ttl_sec"` // default: 7 days
}

// Enabled reports whether an embeddings provider is configured.
func (e EmbeddingConfig) Enabled() bool {
	return e.APIKey != ""
}

// LogicalDB returns the configured logical database.
func (d DatabaseConfig) LogicalDB() int {
	if d.DB == nil {
		return defaultDB
	}
	return *d.DB
}

const defaultDB = 5

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expands env variables, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("REDIS_URL")
	}
	if c.Database.URL == "" {
		c.Database.URL = DefaultRedisURL
	}
	if c.Database.DB == nil {
		db := defaultDB
		c.Database.DB = &db
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.KeyPattern == "" {
		c.Search.KeyPattern = "*"
	}
	if c.Search.TopN <= 0 {
		c.Search.TopN = 10
	}
	if c.Search.FallbackAlgorithm == "" {
		c.Search.FallbackAlgorithm = string(algorithm.Fallback)
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 10
	}
	if c.Search.ScanCount <= 0 {
		c.Search.ScanCount = 100
	}
	if c.Search.ScoreWorkers <= 0 {
		c.Search.ScoreWorkers = runtime.GOMAXPROCS(0)
	}
	if c.Search.UsersPath == "" {
		c.Search.UsersPath = "config/fantom.users.jsonc"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Cache.DB == 0 {
		c.Embedding.Cache.DB = 6
	}
	if c.Embedding.Cache.TTLSec <= 0 {
		c.Embedding.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Embedding.Budget.Action == "" {
		c.Embedding.Budget.Action = "warn"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis, DriverGoRedis:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverGoRedis, c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if db := c.Database.LogicalDB(); db < 0 || db > 15 {
		return fmt.Errorf("database.db must be between 0 and 15, got %d", db)
	}
	if !algorithm.Algorithm(c.Search.FallbackAlgorithm).IsKnown() {
		return fmt.Errorf("search.fallback_algorithm: unknown algorithm %q", c.Search.FallbackAlgorithm)
	}
	if c.Search.FallbackAlgorithm == string(algorithm.Semantic) && !c.Embedding.Enabled() {
		return fmt.Errorf("search.fallback_algorithm %q requires embedding.api_key", c.Search.FallbackAlgorithm)
	}
	if c.Embedding.Cache.Enabled {
		if db := c.Embedding.Cache.DB; db < 0 || db > 15 {
			return fmt.Errorf("embedding.cache.db must be between 0 and 15, got %d", db)
		}
		if c.Embedding.Cache.DB == c.Database.LogicalDB() {
			return fmt.Errorf("embedding.cache.db must differ from database.db (%d)", c.Database.LogicalDB())
		}
	}
	switch c.Embedding.Budget.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("embedding.budget.action must be \"warn\" or \"reject\", got %q", c.Embedding.Budget.Action)
	}
	if c.Embedding.Budget.DailyTokenLimit < 0 || c.Embedding.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("embedding.budget limits must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
