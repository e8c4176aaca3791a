package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	BrasilAPI ProviderConfig `yaml:"brasilapi" mapstructure:"brasilapi"`
	CNPJA     CNPJAConfig    `yaml:"cnpja" mapstructure:"cnpja"`
	Cache     CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Breaker   BreakerConfig  `yaml:"breaker" mapstructure:"breaker"`
	History   HistoryConfig  `yaml:"history" mapstructure:"history"`
	Server    ServerConfig   `yaml:"server" mapstructure:"server"`
	Log       LogConfig      `yaml:"log" mapstructure:"log"`
}

// ProviderConfig configures an upstream registry endpoint.
type ProviderConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// CNPJAConfig extends ProviderConfig with the rate-limit retry bounds.
type CNPJAConfig struct {
	ProviderConfig `yaml:",inline" mapstructure:",squash"`

	MaxRetries    int `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBaseSecs int `yaml:"retry_base_secs" mapstructure:"retry_base_secs"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// BreakerConfig configures the per-provider circuit breakers used in serve
// mode. Disabled by default for one-shot CLI lookups.
type BreakerConfig struct {
	Enabled          bool `yaml:"enabled" mapstructure:"enabled"`
	FailureThreshold int  `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int  `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// HistoryConfig configures the local lookup-history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONSULTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("brasilapi.base_url", "https://brasilapi.com.br/api")
	v.SetDefault("brasilapi.timeout_secs", 15)
	v.SetDefault("brasilapi.rate_per_sec", 3)
	v.SetDefault("brasilapi.rate_burst", 3)
	v.SetDefault("cnpja.base_url", "https://open.cnpja.com")
	v.SetDefault("cnpja.timeout_secs", 15)
	v.SetDefault("cnpja.rate_per_sec", 1)
	v.SetDefault("cnpja.rate_burst", 2)
	v.SetDefault("cnpja.max_retries", 2)
	v.SetDefault("cnpja.retry_base_secs", 2)
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("breaker.enabled", false)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.reset_timeout_secs", 30)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "consulta-cnpj.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
