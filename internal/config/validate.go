package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.LoginRateLimit <= 0 {
		return fmt.Errorf("server.login_rate_limit must be > 0 (got %d)", c.Server.LoginRateLimit)
	}

	if err := c.Timeline.validate(); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}

	if c.Retention.ActivityDays <= 0 {
		return fmt.Errorf("retention.activity_days must be > 0 (got %d)", c.Retention.ActivityDays)
	}

	return nil
}

func (t *TimelineConfig) validate() error {
	if t.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", t.DefaultLimit)
	}
	if t.MaxLimit < t.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit (got %d < %d)", t.MaxLimit, t.DefaultLimit)
	}
	if t.WatchBuffer <= 0 {
		return fmt.Errorf("watch_buffer must be > 0 (got %d)", t.WatchBuffer)
	}
	if err := validateChannelName(t.NotifyChannel); err != nil {
		return fmt.Errorf("notify_channel: %w", err)
	}
	if t.KeepAlive <= 0 {
		return fmt.Errorf("keep_alive must be > 0 (got %v)", t.KeepAlive)
	}
	if t.AssembleTimeout <= 0 {
		return fmt.Errorf("assemble_timeout must be > 0 (got %v)", t.AssembleTimeout)
	}
	return nil
}

// validateChannelName rejects channel names that cannot be used verbatim
// in LISTEN statements.
func validateChannelName(name string) error {
	if name == "" {
		return fmt.Errorf("must not be empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("invalid character %q in %q (lowercase letters, digits and underscore only)", r, name)
		}
	}
	if r := rune(name[0]); r >= '0' && r <= '9' {
		return fmt.Errorf("must not start with a digit (%q)", name)
	}
	if strings.HasPrefix(name, "pg_") {
		return fmt.Errorf("pg_ prefix is reserved (%q)", name)
	}
	return nil
}
