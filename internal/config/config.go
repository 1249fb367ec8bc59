package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	App      AppConfig
	Baserow  BaserowConfig
	Telegram TelegramConfig
	Notify   NotifyConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// AppConfig holds process settings.
type AppConfig struct {
	RunLocal bool
	Port     string
	Path     string // route the order handler is mounted on
}

// BaserowConfig holds the tabular store credentials.
type BaserowConfig struct {
	APIURL   string
	APIToken string // required per request
	TableID  string // required per request
}

// TelegramConfig holds the optional chat notifier credentials.
type TelegramConfig struct {
	APIURL   string
	BotToken string
	ChatID   string
}

// NotifyConfig controls how notification timestamps are rendered.
type NotifyConfig struct {
	Timezone   string
	TimeFormat string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// MetricsConfig holds CloudWatch counter settings. An empty namespace disables them.
type MetricsConfig struct {
	Namespace string
	Region    string
}

// Defaults
const (
	DefaultBaserowAPIURL    = "https://api.baserow.io"
	DefaultTelegramAPIURL   = "https://api.telegram.org"
	DefaultNotifyTimezone   = "America/Argentina/Buenos_Aires"
	DefaultNotifyTimeFormat = "02/01/2006, 15:04:05"
	DefaultPort             = "8080"
	DefaultPath             = "/"
	DefaultRegion           = "us-east-1"
)

// Load reads configuration from the environment. Keys map to environment
// variables by upper-casing and replacing dots with underscores, so
// "baserow.api_token" is read from BASEROW_API_TOKEN.
//
// Missing secrets are not an error here: the order handler reports them per
// request so that a misconfigured deployment still answers CORS preflights.
func Load() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("baserow.api_url", DefaultBaserowAPIURL)
	v.SetDefault("tg.api_url", DefaultTelegramAPIURL)
	v.SetDefault("notify.timezone", DefaultNotifyTimezone)
	v.SetDefault("notify.time_format", DefaultNotifyTimeFormat)
	v.SetDefault("http.port", DefaultPort)
	v.SetDefault("http.path", DefaultPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("aws.region", DefaultRegion)

	cfg := &Config{
		App: AppConfig{
			RunLocal: v.GetBool("run_local"),
			Port:     v.GetString("http.port"),
			Path:     v.GetString("http.path"),
		},
		Baserow: BaserowConfig{
			APIURL:   v.GetString("baserow.api_url"),
			APIToken: strings.TrimSpace(v.GetString("baserow.api_token")),
			TableID:  strings.TrimSpace(v.GetString("baserow.table_id")),
		},
		Telegram: TelegramConfig{
			APIURL:   v.GetString("tg.api_url"),
			BotToken: strings.TrimSpace(v.GetString("tg.bot_token")),
			ChatID:   strings.TrimSpace(v.GetString("tg.chat_id")),
		},
		Notify: NotifyConfig{
			Timezone:   v.GetString("notify.timezone"),
			TimeFormat: v.GetString("notify.time_format"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("metrics.namespace"),
			Region:    v.GetString("aws.region"),
		},
	}

	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills any value that still resolved empty.
func applyDefaults(cfg *Config) {
	if cfg.Baserow.APIURL == "" {
		cfg.Baserow.APIURL = DefaultBaserowAPIURL
	}
	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = DefaultTelegramAPIURL
	}
	if cfg.Notify.Timezone == "" {
		cfg.Notify.Timezone = DefaultNotifyTimezone
	}
	if cfg.Notify.TimeFormat == "" {
		cfg.Notify.TimeFormat = DefaultNotifyTimeFormat
	}
	if cfg.App.Port == "" {
		cfg.App.Port = DefaultPort
	}
	if cfg.App.Path == "" {
		cfg.App.Path = DefaultPath
	}
	if cfg.Metrics.Region == "" {
		cfg.Metrics.Region = DefaultRegion
	}
}

// NotifyEnabled reports whether both optional chat secrets are present.
func (c *TelegramConfig) NotifyEnabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}
