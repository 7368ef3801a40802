package wire

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/charlietlamb/openai-hack/internal/domain/poll"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the process configuration. Values come from, in order of
// precedence: environment variables, the optional CONFIG_FILE, defaults.
type Config struct {
	Port string `mapstructure:"port"`

	StoreBackend string `mapstructure:"store_backend"`
	RedisURL     string `mapstructure:"redis_url"`
	DatabaseURL  string `mapstructure:"database_url"`

	RegistryPath   string `mapstructure:"registry_path"`
	RegistrySize   int    `mapstructure:"registry_size"`
	PollPopulation int    `mapstructure:"poll_population"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`

	InferenceProvider string        `mapstructure:"inference_provider"`
	InferenceModel    string        `mapstructure:"inference_model"`
	InferenceBaseURL  string        `mapstructure:"inference_base_url"`
	InferenceStrategy string        `mapstructure:"inference_strategy"`
	InferenceTimeout  time.Duration `mapstructure:"inference_timeout"`
	InferenceRPS      float64       `mapstructure:"inference_rps"`
	// BreakerMaxFailures <= 0 leaves the provider without a circuit breaker.
	BreakerMaxFailures int    `mapstructure:"breaker_max_failures"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	AnthropicAPIKey    string `mapstructure:"anthropic_api_key"`

	PromptsDir      string `mapstructure:"prompts_dir"`
	TracingExporter string `mapstructure:"tracing_exporter"`
	LogLevel        string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"port":                 "8080",
	"store_backend":        BackendMemory,
	"redis_url":            "redis://localhost:6379/0",
	"database_url":         "",
	"registry_path":        "characters.json",
	"registry_size":        100,
	"poll_population":      100,
	"max_concurrency":      poll.DefaultMaxConcurrency,
	"inference_provider":   "openai",
	"inference_model":      "",
	"inference_base_url":   "",
	"inference_strategy":   "structured",
	"inference_timeout":    "60s",
	"inference_rps":        0,
	"breaker_max_failures": 0,
	"openai_api_key":       "",
	"anthropic_api_key":    "",
	"prompts_dir":          "",
	"tracing_exporter":     "noop",
	"log_level":            "info",
}

// LoadConfig reads the configuration. path may be empty; a named file that
// cannot be read is an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)
	cfg.InferenceProvider = strings.ToLower(cfg.InferenceProvider)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if c.RegistryPath == "" {
		errs = append(errs, errors.New("REGISTRY_PATH is required"))
	}
	if c.RegistrySize < 1 {
		errs = append(errs, fmt.Errorf("REGISTRY_SIZE must be at least 1, got %d", c.RegistrySize))
	}
	if c.PollPopulation < 1 {
		errs = append(errs, fmt.Errorf("POLL_POPULATION must be at least 1, got %d", c.PollPopulation))
	}
	if c.InferenceTimeout <= 0 {
		errs = append(errs, fmt.Errorf("INFERENCE_TIMEOUT must be positive, got %s", c.InferenceTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// APIKey is the key for the selected inference provider.
func (c Config) APIKey() string {
	if c.InferenceProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

// SlogLevel parses LogLevel, falling back to Info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
