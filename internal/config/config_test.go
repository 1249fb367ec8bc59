package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"BASEROW_API_TOKEN", "BASEROW_TABLE_ID", "BASEROW_API_URL",
		"TG_BOT_TOKEN", "TG_CHAT_ID", "TG_API_URL",
		"NOTIFY_TIMEZONE", "NOTIFY_TIME_FORMAT",
		"HTTP_PORT", "HTTP_PATH", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
		"METRICS_NAMESPACE", "AWS_REGION", "RUN_LOCAL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DefaultBaserowAPIURL, cfg.Baserow.APIURL)
	assert.Equal(t, DefaultTelegramAPIURL, cfg.Telegram.APIURL)
	assert.Equal(t, DefaultNotifyTimezone, cfg.Notify.Timezone)
	assert.Equal(t, DefaultNotifyTimeFormat, cfg.Notify.TimeFormat)
	assert.Equal(t, DefaultPort, cfg.App.Port)
	assert.Equal(t, DefaultPath, cfg.App.Path)
	assert.Equal(t, DefaultRegion, cfg.Metrics.Region)
	assert.Empty(t, cfg.Baserow.APIToken)
	assert.Empty(t, cfg.Baserow.TableID)
	assert.Empty(t, cfg.Metrics.Namespace)
	assert.False(t, cfg.App.RunLocal)
	assert.False(t, cfg.Telegram.NotifyEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BASEROW_API_TOKEN", " token-123 ")
	t.Setenv("BASEROW_TABLE_ID", "4242")
	t.Setenv("BASEROW_API_URL", "http://localhost:9000")
	t.Setenv("TG_BOT_TOKEN", "bot-abc")
	t.Setenv("TG_CHAT_ID", "-100200")
	t.Setenv("NOTIFY_TIMEZONE", "UTC")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_PATH", "/api/order")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_NAMESPACE", "OrderIntake")
	t.Setenv("AWS_REGION", "sa-east-1")
	t.Setenv("RUN_LOCAL", "true")

	cfg := Load()

	assert.Equal(t, "token-123", cfg.Baserow.APIToken)
	assert.Equal(t, "4242", cfg.Baserow.TableID)
	assert.Equal(t, "http://localhost:9000", cfg.Baserow.APIURL)
	assert.Equal(t, "bot-abc", cfg.Telegram.BotToken)
	assert.Equal(t, "-100200", cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.NotifyEnabled())
	assert.Equal(t, "UTC", cfg.Notify.Timezone)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "/api/order", cfg.App.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "OrderIntake", cfg.Metrics.Namespace)
	assert.Equal(t, "sa-east-1", cfg.Metrics.Region)
	assert.True(t, cfg.App.RunLocal)
}

func TestTelegramConfig_NotifyEnabled(t *testing.T) {
	tests := []struct {
		name string
		c    TelegramConfig
		want bool
	}{
		{name: "both present", c: TelegramConfig{BotToken: "b", ChatID: "c"}, want: true},
		{name: "missing chat id", c: TelegramConfig{BotToken: "b"}, want: false},
		{name: "missing bot token", c: TelegramConfig{ChatID: "c"}, want: false},
		{name: "none", c: TelegramConfig{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.NotifyEnabled())
		})
	}
}
