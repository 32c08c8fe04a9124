package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"
)

const defaultHandoffNumber = "5515996901137"

type Config struct {
	WAPhoneNumberID string
	WAAccessToken   string
	WAVerifyToken   string

	// HandoffNumber is the sales WhatsApp number, digits only, as wa.me expects it.
	HandoffNumber string

	ChatPacing     bool
	SessionMaxIdle time.Duration
	LogLevel       zerolog.Level

	Port    string
	DataDir string
}

// WhatsAppEnabled reports whether the Cloud API channel is configured.
func (c *Config) WhatsAppEnabled() bool {
	return c.WAPhoneNumberID != "" && c.WAAccessToken != ""
}

func Load() (*Config, error) {
	// .env is optional, env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		WAPhoneNumberID: os.Getenv("WA_PHONE_NUMBER_ID"),
		WAAccessToken:   os.Getenv("WA_ACCESS_TOKEN"),
		WAVerifyToken:   os.Getenv("WA_VERIFY_TOKEN"),
		HandoffNumber:   os.Getenv("HANDOFF_WA_NUMBER"),
		Port:            os.Getenv("PORT"),
		DataDir:         os.Getenv("DATA_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	if cfg.HandoffNumber == "" {
		cfg.HandoffNumber = defaultHandoffNumber
	}
	number, err := normalizeNumber(cfg.HandoffNumber)
	if err != nil {
		return nil, fmt.Errorf("HANDOFF_WA_NUMBER: %w", err)
	}
	cfg.HandoffNumber = number

	if cfg.ChatPacing, err = parseBoolEnv("CHAT_PACING", true); err != nil {
		return nil, err
	}

	if cfg.SessionMaxIdle, err = parseDurationEnv("SESSION_MAX_IDLE", time.Hour); err != nil {
		return nil, err
	}

	cfg.LogLevel = zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if cfg.WAVerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.WAVerifyToken = token
	}

	// The WhatsApp channel is optional, but half a configuration is a mistake.
	if cfg.WAPhoneNumberID != "" || cfg.WAAccessToken != "" {
		for _, req := range []struct {
			name, val string
		}{
			{"WA_PHONE_NUMBER_ID", cfg.WAPhoneNumberID},
			{"WA_ACCESS_TOKEN", cfg.WAAccessToken},
		} {
			if req.val == "" {
				return nil, fmt.Errorf("required env var %s is not set", req.name)
			}
		}
	}

	return cfg, nil
}

// normalizeNumber validates an international number and returns its digits.
func normalizeNumber(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	num, err := phonenumbers.Parse(s, "BR")
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%q is not a valid phone number", raw)
	}
	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
