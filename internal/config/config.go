package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contains runtime configuration values.
type Config struct {
	ServerAddr        string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	EmailFrom         string
	EmailTo           string
	DiscordWebhookURL string
	RequestTimeout    time.Duration
	MaxUploadBytes    int64
	TempSweepCron     string
	TempMaxAge        time.Duration
}

const (
	defaultServerAddr = ":8080"
	defaultSMTPPort   = 587
	defaultTimeout    = 30 * time.Second
	defaultMaxUpload  = int64(32 << 20)
	defaultSweepCron  = "@every 1h"
	defaultTempMaxAge = 24 * time.Hour
	defaultWebhookURL = ""
)

// Load builds a Config from environment variables with sane defaults.
// The mail settings are required; the webhook URL is optional and its
// absence only disables the secondary notification.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:        getenvDefault("SERVER_ADDR", defaultServerAddr),
		SMTPHost:          os.Getenv("EMAIL_SERVER_HOST"),
		SMTPPort:          parseIntDefault("EMAIL_SERVER_PORT", defaultSMTPPort),
		SMTPUser:          os.Getenv("EMAIL_SERVER_USER"),
		SMTPPassword:      os.Getenv("EMAIL_SERVER_PASSWORD"),
		EmailFrom:         os.Getenv("EMAIL_FROM"),
		EmailTo:           os.Getenv("EMAIL_TO"),
		DiscordWebhookURL: getenvDefault("DISCORD_WEBHOOK_URL", defaultWebhookURL),
		RequestTimeout:    parseDurationDefault("REQUEST_TIMEOUT", defaultTimeout),
		MaxUploadBytes:    parseInt64Default("MAX_UPLOAD_BYTES", defaultMaxUpload),
		TempSweepCron:     getenvDefault("TMP_SWEEP_CRON", defaultSweepCron),
		TempMaxAge:        parseDurationDefault("TMP_MAX_AGE", defaultTempMaxAge),
	}

	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("EMAIL_SERVER_HOST is required")
	}
	if cfg.EmailFrom == "" {
		return nil, fmt.Errorf("EMAIL_FROM is required")
	}
	if cfg.EmailTo == "" {
		return nil, fmt.Errorf("EMAIL_TO is required")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseInt64Default(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
