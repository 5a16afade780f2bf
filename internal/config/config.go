// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Resolver ResolverConfig `koanf:"resolver"`
	Identity IdentityConfig `koanf:"identity"`
	Likes    LikesConfig    `koanf:"likes"`
	Reports  ReportsConfig  `koanf:"reports"`
	Logging  LoggingConfig  `koanf:"logging"`
	CORS     CORSConfig     `koanf:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Storage drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and tunes the like store.
type DatabaseConfig struct {
	// Driver is duckdb (embedded, default) or postgres.
	Driver string `koanf:"driver"`

	// DuckDB settings
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// PostgreSQL settings
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// RedisConfig configures the shared count cache.
type RedisConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"`
	TTL       time.Duration `koanf:"ttl"`
	KeyPrefix string        `koanf:"key_prefix"`
}

// Entity resolver modes.
const (
	ResolverNone   = "none"
	ResolverStatic = "static"
	ResolverHTTP   = "http"
)

// ResolverConfig configures how liked targets are turned into titles for
// reports.
type ResolverConfig struct {
	// Mode is none (title is "Type/ID"), static or http.
	Mode string `koanf:"mode"`

	// BaseURL is queried as {base}/{type}/{id} in http mode.
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// Entities maps "Type/ID" to a title in static mode.
	Entities map[string]string `koanf:"entities"`
}

// IdentityConfig controls how callers are identified.
type IdentityConfig struct {
	// UserHeader carries the authenticated user id, set by the host's
	// auth proxy. Empty (the default) disables user identities; only set
	// it when a proxy strips the header from client requests.
	UserHeader string `koanf:"user_header"`

	CookieName   string        `koanf:"cookie_name"`
	CookieMaxAge time.Duration `koanf:"cookie_max_age"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// LikesConfig holds like engine settings.
type LikesConfig struct {
	// Seed is false, an integer, or a [min, max] range.
	Seed any `koanf:"seed"`

	// SeedOnAdd seeds a target before its first like when the request
	// does not say otherwise.
	SeedOnAdd bool `koanf:"seed_on_add"`

	// SeedOnRead seeds unseen targets when they are viewed.
	SeedOnRead bool `koanf:"seed_on_read"`

	// TypeAliases maps alternative type names to a canonical one.
	TypeAliases map[string]string `koanf:"type_aliases"`
}

// ReportsConfig protects the report endpoints.
type ReportsConfig struct {
	// Token is the bearer token operators send to read reports. Empty
	// disables the report endpoints.
	Token string `koanf:"token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
