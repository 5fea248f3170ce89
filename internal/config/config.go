package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig selects where the fact table is loaded from.
type DataConfig struct {
	// Driver is one of parquet, csv, xlsx, sqlite, postgres. Empty infers it
	// from the Path extension.
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	// Strict makes integrity violations fatal instead of logged.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// DatasetConfig bounds the years served.
type DatasetConfig struct {
	FirstYear int `yaml:"first_year" mapstructure:"first_year"`
	LastYear  int `yaml:"last_year" mapstructure:"last_year"`
	// SectorCutoff overrides the last year with value-added data. Zero infers it.
	SectorCutoff int `yaml:"sector_cutoff" mapstructure:"sector_cutoff"`
}

// DashboardConfig holds panel sizes and display settings.
type DashboardConfig struct {
	RankingTopN   int    `yaml:"ranking_top_n" mapstructure:"ranking_top_n"`
	SeriesTopN    int    `yaml:"series_top_n" mapstructure:"series_top_n"`
	PeerCount     int    `yaml:"peer_count" mapstructure:"peer_count"`
	HistogramBins int    `yaml:"histogram_bins" mapstructure:"histogram_bins"`
	Locale        string `yaml:"locale" mapstructure:"locale"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GDP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.driver", "")
	v.SetDefault("data.path", "data/pib_municipios.parquet")
	v.SetDefault("data.database_url", "")
	v.SetDefault("data.table", "pib_municipios")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.strict", false)
	v.SetDefault("dataset.first_year", 2010)
	v.SetDefault("dataset.last_year", 2023)
	v.SetDefault("dataset.sector_cutoff", 0)
	v.SetDefault("dashboard.ranking_top_n", 10)
	v.SetDefault("dashboard.series_top_n", 5)
	v.SetDefault("dashboard.peer_count", 10)
	v.SetDefault("dashboard.histogram_bins", 20)
	v.SetDefault("dashboard.locale", "pt-BR")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})

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

// Validate checks the settings a command needs. mode is "serve" for the
// HTTP server and "query" for one-shot CLI commands.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Data.Path == "" && c.Data.DatabaseURL == "" {
		errs = append(errs, "data.path or data.database_url is required")
	}
	if c.Dataset.FirstYear > c.Dataset.LastYear {
		errs = append(errs, fmt.Sprintf("dataset.first_year %d after last_year %d", c.Dataset.FirstYear, c.Dataset.LastYear))
	}
	if cut := c.Dataset.SectorCutoff; cut != 0 && (cut < c.Dataset.FirstYear || cut > c.Dataset.LastYear) {
		errs = append(errs, fmt.Sprintf("dataset.sector_cutoff %d outside [%d, %d]", cut, c.Dataset.FirstYear, c.Dataset.LastYear))
	}
	if c.Dashboard.PeerCount < 1 || c.Dashboard.PeerCount > 50 {
		errs = append(errs, "dashboard.peer_count must be between 1 and 50")
	}
	if c.Dashboard.HistogramBins < 1 {
		errs = append(errs, "dashboard.histogram_bins must be > 0")
	}

	switch mode {
	case "query":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
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
