package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxMeshDepth bounds mesh.depth.
const MaxMeshDepth = 16

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Mesh      MeshConfig      `yaml:"mesh" mapstructure:"mesh"`
	Synth     SynthConfig     `yaml:"synth" mapstructure:"synth"`
	Gazetteer GazetteerConfig `yaml:"gazetteer" mapstructure:"gazetteer"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Temporal  TemporalConfig  `yaml:"temporal" mapstructure:"temporal"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RunTimeoutSecs int      `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`
	CacheSize      int      `yaml:"cache_size" mapstructure:"cache_size"`
	CacheTTLMins   int      `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// MeshConfig holds tessellation defaults used when a request does not
// override them.
type MeshConfig struct {
	Depth             int     `yaml:"depth" mapstructure:"depth"`
	Padding           float64 `yaml:"padding" mapstructure:"padding"`
	FallbackHalfWidth float64 `yaml:"fallback_half_width" mapstructure:"fallback_half_width"`
	MinArea           float64 `yaml:"min_area" mapstructure:"min_area"`
}

// SynthConfig configures the synthetic sample generator.
type SynthConfig struct {
	Points int    `yaml:"points" mapstructure:"points"`
	Seed   uint64 `yaml:"seed" mapstructure:"seed"`
}

// GazetteerConfig points at an optional place-name file. Empty uses the
// embedded Medellín comunas.
type GazetteerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for zone commentary.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// TemporalConfig configures the Temporal client and worker.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port" mapstructure:"host_port"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	TaskQueue string `yaml:"task_queue" mapstructure:"task_queue"`
}

// ExportConfig configures file exports.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZONEMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "zonemesh.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.run_timeout_secs", 60)
	v.SetDefault("server.cache_size", 64)
	v.SetDefault("server.cache_ttl_mins", 10)
	v.SetDefault("mesh.depth", 10)
	v.SetDefault("mesh.padding", 0.01)
	v.SetDefault("mesh.fallback_half_width", 0.001)
	v.SetDefault("mesh.min_area", 1e-12)
	v.SetDefault("synth.points", 26000)
	v.SetDefault("synth.seed", 1)
	v.SetDefault("gazetteer.path", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "zonemesh")
	v.SetDefault("export.dir", "out")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is the command name:
// "mesh", "serve", "runs", "analysis", "migrate" or "worker". Every problem
// found is reported in one error.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Mesh.Depth < 0 || c.Mesh.Depth > MaxMeshDepth {
		problems = append(problems, fmt.Sprintf("mesh.depth must be between 0 and %d (got %d)", MaxMeshDepth, c.Mesh.Depth))
	}
	if c.Mesh.Padding < 0 {
		problems = append(problems, "mesh.padding must not be negative")
	}
	if c.Mesh.FallbackHalfWidth <= 0 {
		problems = append(problems, "mesh.fallback_half_width must be positive")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" && needsStore(mode) {
			problems = append(problems, "store.sqlite_path is required")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" && needsStore(mode) {
			problems = append(problems, "store.database_url is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
		}
		if c.Server.RunTimeoutSecs <= 0 {
			problems = append(problems, "server.run_timeout_secs must be positive")
		}
	case "analysis":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "migrate":
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for postgres migrations")
		}
	case "worker":
		if c.Temporal.HostPort == "" {
			problems = append(problems, "temporal.host_port is required")
		}
		if c.Temporal.TaskQueue == "" {
			problems = append(problems, "temporal.task_queue is required")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

func needsStore(mode string) bool {
	switch mode {
	case "serve", "migrate", "runs":
		return true
	}
	return false
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
