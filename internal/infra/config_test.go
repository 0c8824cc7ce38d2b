package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://api.airtable.com/v0", cfg.Airtable.APIURL)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 5.0, cfg.Webhook.RateLimitRPS)
	assert.Equal(t, 10, cfg.Webhook.RateLimitBurst)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "chan-1")
	t.Setenv("AIRTABLE_TOKEN", "at-token")
	t.Setenv("AIRTABLE_BASE_ID", "app123")
	t.Setenv("AIRTABLE_TABLE", "Incentives")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "bot-token", cfg.Discord.Token)
	assert.Equal(t, "chan-1", cfg.Discord.ChannelID)
	assert.Equal(t, "app123", cfg.Airtable.BaseID)
	assert.NoError(t, cfg.Validate())
}

func TestValidateListsAllMissingKeys(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)

	// Все шесть обязательных ключей перечислены разом
	for _, key := range []string{
		"discord.token", "discord.channel_id",
		"airtable.token", "airtable.base_id", "airtable.table",
		"webhook.secret",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidatePartial(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "chan-1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "discord.token")
	assert.Contains(t, err.Error(), "airtable.token")
}

func TestNewLogger(t *testing.T) {
	for _, tt := range []struct {
		level  string
		format string
		ok     bool
	}{
		{level: "info", format: "json", ok: true},
		{level: "debug", format: "console", ok: true},
		{level: "nonsense", format: "json", ok: false},
	} {
		logger, err := NewLogger(LoggerConfig{Level: tt.level, Format: tt.format})
		if tt.ok {
			require.NoError(t, err)
			assert.NotNil(t, logger)
		} else {
			assert.Error(t, err)
		}
	}
}
