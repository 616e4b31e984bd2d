// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tereport/config.yaml",
	"/etc/tereport/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default filled in.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
			MaxBodyBytes: 50 << 20, // 50MB
			Name:         "Teacher Edition Report Server",
		},
		Authoring: AuthoringConfig{
			Server:  "authoring.staging.concord.org",
			Timeout: 30 * time.Second,
		},
		Portal: PortalConfig{
			Server:  "learn.staging.concord.org",
			Timeout: 15 * time.Second,
		},
		LogPuller: LogPullerConfig{
			ProductionURL:     "https://log-puller.herokuapp.com/portal-report",
			StagingURL:        "https://log-puller-staging.herokuapp.com/portal-report",
			ProductionDomains: []string{"learn.concord.org", "learn-report.concord.org"},
			Timeout:           5 * time.Minute,
		},
		Build: BuildConfig{
			PrefetchConcurrency: 8,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration with Koanf v2 from defaults, the optional
// config file, and the environment, in increasing priority, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"log_puller.production_domains",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
// PORT, AUTHORING_SERVER, AUTHORING_API_KEY, and LEARN_SERVER keep the names
// the report server has always read.
var envMappings = map[string]string{
	// Server
	"port":               "server.port",
	"http_host":          "server.host",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"max_body_bytes":     "server.max_body_bytes",
	"server_name":        "server.name",

	// Authoring (LARA)
	"authoring_server":              "authoring.server",
	"authoring_api_key":             "authoring.api_key",
	"authoring_timeout":             "authoring.timeout",
	"authoring_requests_per_second": "authoring.requests_per_second",

	// Portal
	"learn_server":               "portal.server",
	"portal_timeout":             "portal.timeout",
	"portal_requests_per_second": "portal.requests_per_second",

	// Log puller
	"log_puller_production_url":     "log_puller.production_url",
	"log_puller_staging_url":        "log_puller.staging_url",
	"log_puller_production_domains": "log_puller.production_domains",
	"log_puller_timeout":            "log_puller.timeout",

	// Identity
	"teacher_directory_file": "identity.directory_file",

	// Build and cache
	"prefetch_concurrency": "build.prefetch_concurrency",
	"cache_enabled":        "cache.enabled",
	"cache_ttl":            "cache.ttl",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped variables return "" and are ignored.
//
// Examples:
//   - PORT -> server.port
//   - AUTHORING_API_KEY -> authoring.api_key
//   - LEARN_SERVER -> portal.server
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
