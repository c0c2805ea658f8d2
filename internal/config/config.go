package config

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Assets   AssetsConfig   `yaml:"assets" mapstructure:"assets"`
	Command  CommandConfig  `yaml:"command" mapstructure:"command"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the building catalog.
type CatalogConfig struct {
	Source      string `yaml:"source" mapstructure:"source"`
	Format      string `yaml:"format" mapstructure:"format"`
	Table       string `yaml:"table" mapstructure:"table"`
	OrderColumn string `yaml:"order_column" mapstructure:"order_column"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	Watch       bool   `yaml:"watch" mapstructure:"watch"`
}

// ResolverConfig tunes fuzzy matching.
type ResolverConfig struct {
	Threshold   float64 `yaml:"threshold" mapstructure:"threshold"`
	Suggestions int     `yaml:"suggestions" mapstructure:"suggestions"`
}

// NotionConfig holds the Notion integration token for notion:// catalogs.
type NotionConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
}

// AssetsConfig locates pre-rendered building images.
type AssetsConfig struct {
	ImageBaseURL string `yaml:"image_base_url" mapstructure:"image_base_url"`
	ImageExt     string `yaml:"image_ext" mapstructure:"image_ext"`
}

// CommandConfig configures chat command parsing.
type CommandConfig struct {
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// FetchConfig configures remote catalog downloads.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty configFile
// looks for an optional config.yaml in the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("WHEREIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.source", "buildings.yaml")
	v.SetDefault("catalog.format", "")
	v.SetDefault("catalog.table", "buildings")
	v.SetDefault("catalog.order_column", "position")
	v.SetDefault("catalog.sheet", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("resolver.threshold", 0.6)
	v.SetDefault("resolver.suggestions", 3)
	v.SetDefault("notion.token", "")
	v.SetDefault("assets.image_base_url", "")
	v.SetDefault("assets.image_ext", ".png")
	v.SetDefault("command.prefix", "~")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	if strings.TrimSpace(c.Catalog.Source) == "" {
		errs = append(errs, "catalog.source is required")
	}
	if strings.HasPrefix(strings.ToLower(c.Catalog.Source), "notion://") && c.Notion.Token == "" {
		errs = append(errs, "notion.token is required for notion:// catalogs")
	}
	if math.IsNaN(c.Resolver.Threshold) || c.Resolver.Threshold < 0 || c.Resolver.Threshold > 1 {
		errs = append(errs, "resolver.threshold must be between 0 and 1")
	}
	if c.Resolver.Suggestions < 0 {
		errs = append(errs, "resolver.suggestions must be >= 0")
	}
	if c.Fetch.TimeoutSecs <= 0 {
		errs = append(errs, "fetch.timeout_secs must be > 0")
	}

	switch mode {
	case "resolve", "list", "validate", "convert", "console":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit <= 0 {
			errs = append(errs, "server.rate_limit must be > 0")
		}
		if c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
