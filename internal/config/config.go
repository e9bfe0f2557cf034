package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string            `mapstructure:"app_name"`
	Env            string            `mapstructure:"app_env"`
	LogLevel       string            `mapstructure:"log_level"`
	APIBaseURL     string            `mapstructure:"api_base_url"`
	APITimeoutMs   int64             `mapstructure:"api_timeout_ms"`
	APITimeout     time.Duration     `mapstructure:"-"`
	APIHeadersRaw  string            `mapstructure:"api_headers"`
	APIHeaders     map[string]string `mapstructure:"-"`
	PublishersFile string            `mapstructure:"publishers_file"`

	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`
	WatchPredict         bool          `mapstructure:"watch_predict"`
	WatchQuery           string        `mapstructure:"watch_query"`
	WatchParams          url.Values    `mapstructure:"-"`
	// WatchRepublishChanged republishes seen postings whose content changed.
	WatchRepublishChanged bool `mapstructure:"watch_republish_changed"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-jobs-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8000/api/")
	v.SetDefault("api_timeout_ms", 10000)
	v.SetDefault("api_headers", "") // comma separated Name=Value pairs
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("watch_interval", 300) // seconds
	v.SetDefault("watch_predict", true)
	v.SetDefault("watch_republish_changed", false)
	v.SetDefault("watch_query", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/jobs.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (cfg *Config) finalize() error {
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q (must be an absolute URL)", cfg.APIBaseURL)
	}

	if cfg.APITimeoutMs <= 0 {
		return fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutMs) * time.Millisecond

	headers, err := parseHeaders(cfg.APIHeadersRaw)
	if err != nil {
		return err
	}
	cfg.APIHeaders = headers

	if cfg.WatchIntervalSeconds <= 0 {
		return fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	params, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(cfg.WatchQuery), "?"))
	if err != nil {
		return fmt.Errorf("invalid watch_query: %w", err)
	}
	cfg.WatchParams = params

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// parseHeaders reads "Name=Value,Other=Value" into a map.
func parseHeaders(raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid api_headers entry %q (expected Name=Value)", pair)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}
