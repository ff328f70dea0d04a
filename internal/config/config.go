// Package config loads and validates the bot configuration.
//
// Configuration is exposed through the Getter interface so the rest of the
// code never cares whether values come from process environment variables,
// a .env file loaded at startup, or a fixture map in tests. The hosting
// mechanism is adapted to Getter exactly once, at the boundary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultModel        = "gemini-2.5-flash"
	DefaultCronSchedule = "0 */3 * * *" // every 3 hours
	DefaultPort         = 8080
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Getter provides uniform optional lookup of named configuration values.
// An empty value is reported as absent, matching how the bot treats
// blank environment variables.
type Getter interface {
	Get(name string) (string, bool)
}

// Env is the Getter backed by process environment variables.
type Env struct{}

func (Env) Get(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Map is a fixture-backed Getter for tests.
type Map map[string]string

func (m Map) Get(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Config holds everything the bot needs for one process lifetime.
// Meta and Telegram credentials are optional; their stages are skipped
// when absent.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	CFAccountID string
	CFAPIToken  string

	StorageBackend string
	BlobBucket     string
	BlobPrefix     string

	PublicBaseURL string

	MetaPageID         string
	MetaAccessToken    string
	InstagramAccountID string

	TelegramBotToken string
	TelegramChatID   string

	CronSecret   string
	CronSchedule string
	Port         int
}

// Load reads the configuration from g and validates the values required
// before any run can succeed. Optional platform credentials are read as-is.
func Load(g Getter) (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:       value(g, "GEMINI_API_KEY"),
		GeminiModel:        valueOr(g, "GEMINI_MODEL", DefaultModel),
		CFAccountID:        value(g, "CF_ACCOUNT_ID"),
		CFAPIToken:         value(g, "CF_API_TOKEN"),
		StorageBackend:     valueOr(g, "STORAGE_BACKEND", BackendS3),
		BlobBucket:         value(g, "BLOB_BUCKET"),
		BlobPrefix:         value(g, "BLOB_PREFIX"),
		PublicBaseURL:      value(g, "PUBLIC_BASE_URL"),
		MetaPageID:         value(g, "META_PAGE_ID"),
		MetaAccessToken:    value(g, "META_PAGE_ACCESS_TOKEN"),
		InstagramAccountID: value(g, "INSTAGRAM_ACCOUNT_ID"),
		TelegramBotToken:   value(g, "TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     value(g, "TELEGRAM_CHAT_ID"),
		CronSecret:         value(g, "CRON_SECRET"),
		CronSchedule:       valueOr(g, "CRON_SCHEDULE", DefaultCronSchedule),
		Port:               DefaultPort,
	}

	if p, ok := g.Get("PORT"); ok {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 {
			return nil, fmt.Errorf("invalid PORT value %q", p)
		}
		cfg.Port = port
	}

	var missing []string
	for _, req := range []struct{ name, val string }{
		{"GEMINI_API_KEY", cfg.GeminiAPIKey},
		{"CF_ACCOUNT_ID", cfg.CFAccountID},
		{"CF_API_TOKEN", cfg.CFAPIToken},
		{"PUBLIC_BASE_URL", cfg.PublicBaseURL},
	} {
		if req.val == "" {
			missing = append(missing, req.name)
		}
	}

	switch cfg.StorageBackend {
	case BackendS3:
		if cfg.BlobBucket == "" {
			missing = append(missing, "BLOB_BUCKET")
		}
	case BackendMemory:
		// No further configuration needed.
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)",
			cfg.StorageBackend, BackendS3, BackendMemory)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// FacebookEnabled reports whether the Facebook publish stage should run.
func (c *Config) FacebookEnabled() bool {
	return c.MetaPageID != "" && c.MetaAccessToken != ""
}

// InstagramEnabled reports whether the Instagram publish stage should run.
func (c *Config) InstagramEnabled() bool {
	return c.InstagramAccountID != "" && c.MetaAccessToken != ""
}

// TelegramEnabled reports whether outcome notifications can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func value(g Getter, name string) string {
	v, _ := g.Get(name)
	return v
}

func valueOr(g Getter, name, def string) string {
	if v, ok := g.Get(name); ok {
		return v
	}
	return def
}
