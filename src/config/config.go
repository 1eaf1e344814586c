package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const DATE_PARSE_FORMAT = "2006-01-02"

// Key under which the pricing config blob lives in the agreements bucket.
const PRICING_CONFIG_KEY = "settings/pricing.json"
const DAILY_RATE_KEY = "settings/daily-rate.json"

const DEFAULT_DAILY_RATE float64 = 5000

type TelegramConfig struct {
	BotToken        string
	ChatID          string
	Enabled         bool
	MaxRetries      int
	RateLimitPerMin int
}

func GetTelegramConfig() TelegramConfig {
	enabled := true
	if v, ok := os.LookupEnv("TELEGRAM_NOTIFICATIONS_ENABLED"); ok {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			enabled = parsed
		}
	}
	maxRetries, err := strconv.Atoi(os.Getenv("TELEGRAM_MAX_RETRIES"))
	if err != nil || maxRetries < 1 {
		maxRetries = 3
	}
	ratePerMin, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT_PER_MIN"))
	if err != nil || ratePerMin < 1 {
		ratePerMin = 20
	}
	return TelegramConfig{
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:          os.Getenv("TELEGRAM_CHAT_ID"),
		Enabled:         enabled,
		MaxRetries:      maxRetries,
		RateLimitPerMin: ratePerMin,
	}
}

func (c TelegramConfig) Validate() error {
	missing := []string{}
	if c.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.ChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}
