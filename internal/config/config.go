package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"nanny-payroll-bot/internal/payroll"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken   string
	TelegramDebug   bool
	BaseAdminChatID int64
	DatabaseURL     string

	// Файлы начальной загрузки, все необязательные
	TaxRatesFile string
	EmployerFile string
	EmployeesDir string
	HolidaysFile string

	YTDPadDays       int
	PayPeriodDays    int
	OccupationalCode string

	HTTPAddr string

	ChatRateLimit  float64
	ChatRateBurst  int
	StateCacheSize int
}

var (
	ErrMissingToken   = errors.New("could not get bot token")
	ErrMissingAdminID = errors.New("could not get admin chat id")
)

var instance *BotConfig
var once sync.Once

// GetBotConfig загружает конфиг один раз и завершает процесс при ошибке
func GetBotConfig() *BotConfig {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает .env (если есть) и переменные окружения
func Load() (*BotConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading env variables: %w", err)
	}

	cfg := &BotConfig{
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:   getEnvAsBool("TELEGRAM_DEBUG", false),
		BaseAdminChatID: getEnvAsInt("BASE_ADMIN_CHAT_ID", -2),
		DatabaseURL:     getEnv("DATABASE_URL", "payroll.db"),

		TaxRatesFile: getEnv("TAX_RATES_FILE", ""),
		EmployerFile: getEnv("EMPLOYER_FILE", ""),
		EmployeesDir: getEnv("EMPLOYEES_DIR", ""),
		HolidaysFile: getEnv("HOLIDAYS_FILE", ""),

		YTDPadDays:       int(getEnvAsInt("YTD_PAD_DAYS", 6)),
		PayPeriodDays:    int(getEnvAsInt("PAY_PERIOD_DAYS", 6)),
		OccupationalCode: getEnv("OCCUPATIONAL_CODE", "399011"),

		HTTPAddr: getEnv("HTTP_ADDR", ""),

		ChatRateLimit:  getEnvAsFloat("CHAT_RATE_LIMIT", 1),
		ChatRateBurst:  int(getEnvAsInt("CHAT_RATE_BURST", 5)),
		StateCacheSize: int(getEnvAsInt("STATE_CACHE_SIZE", 256)),
	}

	if cfg.TelegramToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseAdminChatID == -2 {
		return nil, ErrMissingAdminID
	}
	if cfg.YTDPadDays < 0 || cfg.PayPeriodDays < 0 {
		return nil, fmt.Errorf("YTD_PAD_DAYS and PAY_PERIOD_DAYS must not be negative")
	}
	if cfg.StateCacheSize <= 0 {
		cfg.StateCacheSize = 256
	}
	if cfg.ChatRateBurst <= 0 {
		cfg.ChatRateBurst = 1
	}

	return cfg, nil
}

// PayrollConfig - настройки движка расчета
func (c *BotConfig) PayrollConfig() payroll.Config {
	cfg := payroll.DefaultConfig()
	cfg.YTDPadDays = c.YTDPadDays
	return cfg
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}
