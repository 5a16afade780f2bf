// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "DATABASE_DRIVER"},
		{"driver is case insensitive", func(c *Config) { c.Database.Driver = " DuckDB " }, ""},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "DATABASE_DSN"},
		{"duckdb without path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "REDIS_ADDR"},
		{"http resolver without url", func(c *Config) { c.Resolver.Mode = ResolverHTTP }, "RESOLVER_BASE_URL"},
		{"http resolver bad scheme", func(c *Config) {
			c.Resolver.Mode = ResolverHTTP
			c.Resolver.BaseURL = "ftp://host/x"
		}, "RESOLVER_BASE_URL"},
		{"http resolver ok", func(c *Config) {
			c.Resolver.Mode = ResolverHTTP
			c.Resolver.BaseURL = "https://host/entities"
		}, ""},
		{"unknown resolver", func(c *Config) { c.Resolver.Mode = "ldap" }, "RESOLVER_MODE"},
		{"empty cookie name", func(c *Config) { c.Identity.CookieName = "" }, "SESSION_COOKIE_NAME"},
		{"seed true", func(c *Config) { c.Likes.Seed = true }, "LIKES_SEED"},
		{"short reports token", func(c *Config) { c.Reports.Token = "short" }, "REPORTS_TOKEN"},
		{"reports token", func(c *Config) { c.Reports.Token = "0123456789abcdef" }, ""},
		{"seed inverted range", func(c *Config) { c.Likes.Seed = []any{9, 1} }, "LIKES_SEED"},
		{"seed range", func(c *Config) { c.Likes.Seed = []any{1, 9} }, ""},
		{"chained aliases", func(c *Config) {
			c.Likes.TypeAliases = map[string]string{"a": "b", "b": "c"}
		}, "LIKES_TYPE_ALIASES"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
