package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("BASE_ADMIN_CHAT_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, int64(42), cfg.BaseAdminChatID)
	assert.Equal(t, "payroll.db", cfg.DatabaseURL)
	assert.Equal(t, 6, cfg.YTDPadDays)
	assert.Equal(t, 6, cfg.PayPeriodDays)
	assert.Equal(t, "399011", cfg.OccupationalCode)
	assert.Equal(t, "", cfg.HTTPAddr)
	assert.Equal(t, 1.0, cfg.ChatRateLimit)
	assert.Equal(t, 5, cfg.ChatRateBurst)
	assert.Equal(t, 256, cfg.StateCacheSize)
	assert.False(t, cfg.TelegramDebug)

	pc := cfg.PayrollConfig()
	assert.Equal(t, 6, pc.YTDPadDays)
	assert.Equal(t, 4, pc.MinWithholdingPeriodDays)
	assert.Equal(t, 6, pc.MaxWithholdingPeriodDays)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("BASE_ADMIN_CHAT_ID", "0")
	t.Setenv("YTD_PAD_DAYS", "3")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("CHAT_RATE_LIMIT", "0.5")
	t.Setenv("TELEGRAM_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.BaseAdminChatID)
	assert.Equal(t, 3, cfg.PayrollConfig().YTDPadDays)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 0.5, cfg.ChatRateLimit)
	assert.True(t, cfg.TelegramDebug)
}

func TestLoadRequiredKeys(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("BASE_ADMIN_CHAT_ID", "1")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingToken)

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("BASE_ADMIN_CHAT_ID", "not-a-number")
	_, err = Load()
	assert.ErrorIs(t, err, ErrMissingAdminID)
}

// chdir меняет рабочий каталог на время теста (аналог t.Chdir для Go < 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
