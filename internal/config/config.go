// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Telegram
	BotToken string

	// Database
	DatabaseURL string

	// Sources
	SourcesPath string

	// Fetch
	PollInterval       time.Duration
	StartupDelay       time.Duration
	FetchTimeout       time.Duration
	FetchMaxSize       int64
	FetchMaxConcurrent int
	SourceLimit        int

	// Notify
	NotifyLimitPerUser int
	NotifyRate         float64

	// Server
	ServerPort       string
	RateLimitTrigger int
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はまとめてエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SourcesPath = getEnvString("SOURCES_PATH", "sources.json")
	cfg.PollInterval = getEnvDuration("POLL_INTERVAL", 300*time.Second)
	cfg.StartupDelay = getEnvDuration("STARTUP_DELAY", 10*time.Second)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 15*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.FetchMaxConcurrent = getEnvInt("FETCH_MAX_CONCURRENT", 4)
	cfg.SourceLimit = getEnvInt("SOURCE_LIMIT", 50)
	cfg.NotifyLimitPerUser = getEnvInt("NOTIFY_LIMIT_PER_USER", 10)
	cfg.NotifyRate = getEnvFloat("NOTIFY_RATE", 25)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.RateLimitTrigger = getEnvInt("RATE_LIMIT_TRIGGER", 10)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
