package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           int
	AllowedOrigins []string

	LogLevel  string
	LogFormat string
	LogCaller bool

	DatabaseURL string

	RoomCodeLength   int
	HubInboxSize     int
	ClientOutboxSize int

	MessagesDir string
}

// Load reads the environment, after merging an optional .env file.
func Load() (*AppConfig, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:             3000,
		AllowedOrigins:   []string{"localhost:5173"},
		LogLevel:         "info",
		LogFormat:        "console",
		RoomCodeLength:   6,
		HubInboxSize:     64,
		ClientOutboxSize: 16,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = n
	}

	if v := strings.TrimSpace(os.Getenv("FRONTEND_URL")); v != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, p := range strings.Split(v, ",") {
			if s := originPattern(p); s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_CALLER")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCaller = b
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if n, ok := intEnv("ROOM_CODE_LENGTH"); ok && n >= 4 && n <= 12 {
		cfg.RoomCodeLength = n
	}
	if n, ok := intEnv("HUB_INBOX_SIZE"); ok && n > 0 {
		cfg.HubInboxSize = n
	}
	if n, ok := intEnv("CLIENT_OUTBOX_SIZE"); ok && n > 0 {
		cfg.ClientOutboxSize = n
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func intEnv(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// originPattern strips the scheme so the value can be used as a websocket
// origin host pattern.
func originPattern(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.TrimSuffix(s, "/")
}
