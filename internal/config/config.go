// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (CONFIG_PATH, config.yaml, /etc/tereport/config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Upstream services:
//     - Authoring: LARA content exports
//     - Portal: teacher display names
//     - LogPuller: raw event logs
//     - Identity: optional offline name directory
//
//  2. Pipeline:
//     - Build: prefetch concurrency for report-data builds
//     - Cache: cross-build TTL cache for exports and names
//
//  3. Front door:
//     - Server: HTTP listener and request limits
//     - Security: CORS and rate limiting
//
//  4. Observability:
//     - Logging: level, format, caller info
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	authoring := upstream.NewAuthoringClient(cfg.Authoring)
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Authoring AuthoringConfig `koanf:"authoring"`
	Portal    PortalConfig    `koanf:"portal"`
	LogPuller LogPullerConfig `koanf:"log_puller"`
	Identity  IdentityConfig  `koanf:"identity"`
	Build     BuildConfig     `koanf:"build"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"` // must cover a full build plus CSV streaming
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	Name         string        `koanf:"name"` // returned by GET /
}

// AuthoringConfig points at the LARA authoring service.
//
// Environment Variables:
//   - AUTHORING_SERVER: host name, e.g. authoring.concord.org (a full URL is also accepted)
//   - AUTHORING_API_KEY: bearer token for export.json
//   - AUTHORING_TIMEOUT: per-request timeout
type AuthoringConfig struct {
	Server            string        `koanf:"server"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"` // 0 = unpaced
}

// PortalConfig points at the Portal used for teacher names.
type PortalConfig struct {
	Server            string        `koanf:"server"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// LogPullerConfig selects the log-puller endpoint by the request's domain.
type LogPullerConfig struct {
	ProductionURL     string        `koanf:"production_url"`
	StagingURL        string        `koanf:"staging_url"`
	ProductionDomains []string      `koanf:"production_domains"`
	Timeout           time.Duration `koanf:"timeout"`
}

// IdentityConfig holds the optional YAML name directory consulted before the Portal.
type IdentityConfig struct {
	DirectoryFile string `koanf:"directory_file"`
}

// BuildConfig tunes report-data builds.
type BuildConfig struct {
	// PrefetchConcurrency bounds concurrent upstream lookups before ingestion.
	// Zero resolves references lazily, one at a time.
	PrefetchConcurrency int `koanf:"prefetch_concurrency"`
}

// CacheConfig controls the cross-build cache of exports and names.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console. Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
