package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"TrendLabeler/internal/collector"
	"TrendLabeler/internal/dataset"
	"TrendLabeler/internal/logger"
)

// DataSourceConfig selects where daily bars come from.
type DataSourceConfig struct {
	Source    string   `yaml:"source" validate:"oneof=yahoo vstrader mock"`
	Market    string   `yaml:"market" validate:"required"`
	BaseURL   string   `yaml:"base_url" validate:"required_if=Source vstrader"`
	APIKey    string   `yaml:"api_key"`
	Codes     []string `yaml:"codes" validate:"min=1,dive,required"`
	StartDate string   `yaml:"start_date" validate:"required"`
	EndDate   string   `yaml:"end_date" validate:"required"`
	CacheDir  string   `yaml:"cache_dir"`
}

// DatasetConfig controls sampling, splitting and output.
type DatasetConfig struct {
	InputWindow  int     `yaml:"input_window" validate:"gt=0"`
	OutputWindow int     `yaml:"output_window" validate:"gt=0"`
	Step         int     `yaml:"step" validate:"gt=0"`
	TrainRatio   float64 `yaml:"train_ratio" validate:"gt=0,lte=1"`
	Seed         int64   `yaml:"seed"`
	Workers      int     `yaml:"workers" validate:"gt=0"`
	OnError      string  `yaml:"on_error" validate:"oneof=skip neutral"`
	OutputDir    string  `yaml:"output_dir" validate:"required"`
}

// LogConfig configures the global logger and file rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file_name"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// Config holds all application configuration.
type Config struct {
	DataSource DataSourceConfig `yaml:"data_source"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Schedule   struct {
		// BuildCron is a six-field cron expression; empty builds once and exits.
		BuildCron string `yaml:"build_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Database struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Log   LogConfig `yaml:"log"`
	Proxy string    `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Environment variable overrides
func (c *Config) applyEnv() error {
	envString("DATA_SOURCE", &c.DataSource.Source)
	envString("MARKET", &c.DataSource.Market)
	envString("START_DATE", &c.DataSource.StartDate)
	envString("END_DATE", &c.DataSource.EndDate)
	envString("VSTRADER_BASE_URL", &c.DataSource.BaseURL)
	envString("VSTRADER_API_KEY", &c.DataSource.APIKey)
	envString("BUILD_CRON", &c.Schedule.BuildCron)
	envString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	envString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	envString("DB_DRIVER", &c.Database.Driver)
	envString("DB_DSN", &c.Database.DSN)
	envString("LOG_LEVEL", &c.Log.Level)
	envString("HTTPS_PROXY", &c.Proxy)
	if v := os.Getenv("CODES"); v != "" {
		c.DataSource.Codes = splitCodes(v)
	}

	var errs []error
	errs = append(errs,
		envInt("INPUT_WINDOW", &c.Dataset.InputWindow),
		envInt("OUTPUT_WINDOW", &c.Dataset.OutputWindow),
		envFloat("TRAIN_RATIO", &c.Dataset.TrainRatio),
		envInt64("DATASET_SEED", &c.Dataset.Seed),
	)
	return errors.Join(errs...)
}

// Defaults
func (c *Config) applyDefaults() {
	if c.DataSource.Source == "" {
		c.DataSource.Source = collector.SourceYahoo
	}
	if c.DataSource.Market == "" {
		c.DataSource.Market = "zh"
	}
	if len(c.DataSource.Codes) == 0 {
		c.DataSource.Codes = []string{"000001"}
	}
	if c.DataSource.StartDate == "" {
		c.DataSource.StartDate = "2020-01-01"
	}
	if c.DataSource.EndDate == "" {
		c.DataSource.EndDate = "2024-01-01"
	}
	if c.Dataset.InputWindow == 0 {
		c.Dataset.InputWindow = 60
	}
	if c.Dataset.OutputWindow == 0 {
		c.Dataset.OutputWindow = 20
	}
	if c.Dataset.Step == 0 {
		c.Dataset.Step = dataset.DefaultStep
	}
	if c.Dataset.TrainRatio == 0 {
		c.Dataset.TrainRatio = 0.7
	}
	if c.Dataset.Workers == 0 {
		c.Dataset.Workers = 4
	}
	if c.Dataset.OnError == "" {
		c.Dataset.OnError = string(dataset.OnErrorSkip)
	}
	if c.Dataset.OutputDir == "" {
		c.Dataset.OutputDir = "cachedataset"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 100
	}
}

// Validate checks field constraints and the date range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, _, err := c.ParseDates(); err != nil {
		return err
	}
	return nil
}

var dateLayouts = []string{"2006-01-02", "20060102"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or YYYYMMDD", s)
}

// ParseDates returns the configured range; end must be after start.
func (c *Config) ParseDates() (start, end time.Time, err error) {
	if start, err = parseDate(c.DataSource.StartDate); err != nil {
		return start, end, fmt.Errorf("data_source.start_date: %w", err)
	}
	if end, err = parseDate(c.DataSource.EndDate); err != nil {
		return start, end, fmt.Errorf("data_source.end_date: %w", err)
	}
	if !end.After(start) {
		return start, end, fmt.Errorf("data_source.end_date %s must be after start_date %s",
			c.DataSource.EndDate, c.DataSource.StartDate)
	}
	return start, end, nil
}

// Sampler builds the window sampler described by the dataset section.
func (c *Config) Sampler() *dataset.Sampler {
	s := dataset.NewSampler(c.Dataset.InputWindow, c.Dataset.OutputWindow)
	s.Step = c.Dataset.Step
	s.Workers = c.Dataset.Workers
	s.OnError = dataset.OnError(c.Dataset.OnError)
	return s
}

// FetcherConfig returns the collector settings.
func (c *Config) FetcherConfig() collector.FetcherConfig {
	return collector.FetcherConfig{
		Source:  c.DataSource.Source,
		Market:  c.DataSource.Market,
		BaseURL: c.DataSource.BaseURL,
		APIKey:  c.DataSource.APIKey,
		Proxy:   c.Proxy,
	}
}

// LoggerOptions returns the logger settings.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		FileName:   c.Log.FileName,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
		Console:    c.Log.Console,
	}
}

func splitCodes(s string) []string {
	var out []string
	for _, code := range strings.Split(s, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envInt64(key string, dst *int64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}
