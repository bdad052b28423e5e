// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For required credentials (e.g., Twitch chat), use ValidateChatReady.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Log capacity: when the session log grows past LogMax entries, the oldest
// entries are trimmed until LogMax-LogTrimThreshold remain.
const (
	DefaultLogMax           = 800
	DefaultLogTrimThreshold = 200
)

// Outbound message length limits.
const (
	DefaultMessageMax  = 500
	DefaultMessageWarn = 400
)

type Config struct {
	// Twitch
	TwitchChannel      string
	TwitchBotUsername  string
	TwitchOAuthToken   string
	TwitchRefreshToken string
	TwitchClientID     string
	TwitchClientSecret string

	// Log store capacity
	LogMax           int
	LogTrimThreshold int

	// Outbound message limits
	MessageMax  int
	MessageWarn int

	// Notice filtering: msg-ids dropped entirely, and msg-ids whose text is
	// linkified instead of plain-escaped.
	IgnoredNotices   []string
	LinkifiedNotices []string

	// HTTP
	HTTPAddr string

	// Database (optional archive; empty disables persistence)
	DBDsn string
}

// Load reads environment variables and applies defaults. It doesn't fail if
// Twitch creds are missing; use ValidateChatReady() when you require the chat
// connection. An empty DB_DSN runs the service purely in memory.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchChannel = os.Getenv("TWITCH_CHANNEL")
	cfg.TwitchBotUsername = os.Getenv("TWITCH_BOT_USERNAME")
	cfg.TwitchOAuthToken = os.Getenv("TWITCH_OAUTH_TOKEN")
	cfg.TwitchRefreshToken = os.Getenv("TWITCH_REFRESH_TOKEN")
	cfg.TwitchClientID = os.Getenv("TWITCH_CLIENT_ID")
	cfg.TwitchClientSecret = os.Getenv("TWITCH_CLIENT_SECRET")

	var err error
	if cfg.LogMax, err = intEnv("LOG_MAX", DefaultLogMax); err != nil {
		return nil, err
	}
	if cfg.LogTrimThreshold, err = intEnv("LOG_TRIM_THRESHOLD", DefaultLogTrimThreshold); err != nil {
		return nil, err
	}
	if cfg.LogTrimThreshold >= cfg.LogMax {
		return nil, fmt.Errorf("LOG_TRIM_THRESHOLD (%d) must be below LOG_MAX (%d)", cfg.LogTrimThreshold, cfg.LogMax)
	}
	if cfg.MessageMax, err = intEnv("MESSAGE_MAX", DefaultMessageMax); err != nil {
		return nil, err
	}
	if cfg.MessageWarn, err = intEnv("MESSAGE_WARN", DefaultMessageWarn); err != nil {
		return nil, err
	}

	cfg.IgnoredNotices = listEnv("IGNORED_NOTICES", []string{
		"host_on",
		"host_off",
		"host_target_went_offline",
	})
	cfg.LinkifiedNotices = listEnv("LINKIFIED_NOTICES", []string{
		"msg_followersonly",
		"msg_subsonly",
	})

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.DBDsn = os.Getenv("DB_DSN")

	return cfg, nil
}

// ValidateChatReady checks required fields for connecting to Twitch chat.
func (c *Config) ValidateChatReady() error {
	if c.TwitchChannel == "" || c.TwitchBotUsername == "" || c.TwitchOAuthToken == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_CHANNEL, TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN")
	}
	return nil
}

// IsNoticeIgnored reports whether the notice msg-id is on the ignore list.
func (c *Config) IsNoticeIgnored(event string) bool {
	for _, e := range c.IgnoredNotices {
		if e == event {
			return true
		}
	}
	return false
}

// IsNoticeLinkified reports whether the notice msg-id should have URLs turned
// into anchors instead of plain escaping.
func (c *Config) IsNoticeLinkified(event string) bool {
	for _, e := range c.LinkifiedNotices {
		if e == event {
			return true
		}
	}
	return false
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q (want positive integer)", key, v)
	}
	return n, nil
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
