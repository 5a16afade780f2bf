// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/baselike/internal/likes"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateRedis,
		c.validateResolver,
		c.validateIdentity,
		c.validateLikes,
		c.validateReports,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must not be negative")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
		}
		if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
			return fmt.Errorf("database pool sizes must not be negative")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverPostgres, c.Database.Driver)
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("REDIS_TTL must be positive")
	}
	return nil
}

func (c *Config) validateResolver() error {
	switch c.Resolver.Mode {
	case ResolverNone, ResolverStatic:
	case ResolverHTTP:
		if err := validateHTTPURL(c.Resolver.BaseURL); err != nil {
			return fmt.Errorf("RESOLVER_BASE_URL is invalid: %w", err)
		}
		if c.Resolver.Timeout <= 0 {
			return fmt.Errorf("RESOLVER_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("RESOLVER_MODE must be one of none, static, http; got %q", c.Resolver.Mode)
	}
	if c.Resolver.CacheSize < 0 {
		return fmt.Errorf("RESOLVER_CACHE_SIZE must not be negative")
	}
	return nil
}

func (c *Config) validateIdentity() error {
	if c.Identity.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if c.Identity.CookieMaxAge <= 0 {
		return fmt.Errorf("SESSION_COOKIE_MAX_AGE must be positive")
	}
	return nil
}

func (c *Config) validateLikes() error {
	if _, err := likes.ParseSeedSpec(c.Likes.Seed); err != nil {
		return fmt.Errorf("LIKES_SEED: %w", err)
	}
	if _, err := likes.NewNormalizer(c.Likes.TypeAliases); err != nil {
		return fmt.Errorf("LIKES_TYPE_ALIASES: %w", err)
	}
	return nil
}

// minReportsTokenLength rejects trivially guessable report tokens.
const minReportsTokenLength = 16

func (c *Config) validateReports() error {
	c.Reports.Token = strings.TrimSpace(c.Reports.Token)
	if c.Reports.Token != "" && len(c.Reports.Token) < minReportsTokenLength {
		return fmt.Errorf("REPORTS_TOKEN must be at least %d characters", minReportsTokenLength)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL accepts absolute http and https URLs with a host.
func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is missing")
	}
	return nil
}
