// Package config loads firewatch configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/firewatch-cli/pkg/arcgis"
)

// Config holds the full application configuration.
type Config struct {
	Feed      FeedConfig      `yaml:"feed" mapstructure:"feed"`
	Query     QueryConfig     `yaml:"query" mapstructure:"query"`
	Stats     StatsConfig     `yaml:"stats" mapstructure:"stats"`
	Correlate CorrelateConfig `yaml:"correlate" mapstructure:"correlate"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FeedConfig configures the remote incident feed and the property keys of
// both feature collections.
type FeedConfig struct {
	URL                string  `yaml:"url" mapstructure:"url"`
	UserAgent          string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries         int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit          float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	DiscoveryKey       string  `yaml:"discovery_key" mapstructure:"discovery_key"`
	SizeKey            string  `yaml:"size_key" mapstructure:"size_key"`
	OldestDetectionKey string  `yaml:"oldest_detection_key" mapstructure:"oldest_detection_key"`
}

// QueryConfig bounds the incident query window and minimum size.
type QueryConfig struct {
	From         string  `yaml:"from" mapstructure:"from"`
	To           string  `yaml:"to" mapstructure:"to"`
	MinSizeAcres float64 `yaml:"min_size_acres" mapstructure:"min_size_acres"`
}

// StatsConfig configures summary statistics thresholds.
type StatsConfig struct {
	LargeFireAcres float64 `yaml:"large_fire_acres" mapstructure:"large_fire_acres"`
}

// CorrelateConfig configures the correlation loop.
type CorrelateConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures run persistence. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// windowLayouts are accepted by the query window fields, most specific first.
var windowLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// Window parses the query window bounds as UTC instants.
func (q QueryConfig) Window() (time.Time, time.Time, error) {
	from, err := parseWindow(q.From)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrap(err, "config: query.from")
	}
	to, err := parseWindow(q.To)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrap(err, "config: query.to")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, eris.Errorf("config: query window ends (%s) before it starts (%s)", q.To, q.From)
	}
	return from, to, nil
}

func parseWindow(s string) (time.Time, error) {
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("unrecognized time %q", s)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FIREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("feed.url", arcgis.DefaultWFIGSURL)
	v.SetDefault("feed.user_agent", "firewatch-cli/1.0")
	v.SetDefault("feed.timeout_secs", 30)
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.rate_limit", 5)
	v.SetDefault("feed.discovery_key", "FireDiscoveryDateTime")
	v.SetDefault("feed.size_key", "IncidentSize")
	v.SetDefault("feed.oldest_detection_key", "oldest_detection")
	v.SetDefault("query.from", "2024-06-01 00:00:00")
	v.SetDefault("query.to", "2024-09-30 23:59:59")
	v.SetDefault("query.min_size_acres", 1)
	v.SetDefault("stats.large_fire_acres", 1000)
	v.SetDefault("correlate.workers", 4)
	v.SetDefault("store.path", "firewatch.db")
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
