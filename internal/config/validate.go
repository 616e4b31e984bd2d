// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAuthoring(); err != nil {
		return err
	}

	if err := c.validatePortal(); err != nil {
		return err
	}

	if err := c.validateLogPuller(); err != nil {
		return err
	}

	if err := c.validateBuild(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c *Config) validateAuthoring() error {
	if err := validateServerHost(c.Authoring.Server, "AUTHORING_SERVER"); err != nil {
		return err
	}
	if c.Authoring.RequestsPerSecond < 0 {
		return fmt.Errorf("AUTHORING_REQUESTS_PER_SECOND must not be negative")
	}
	return validateTimeout(c.Authoring.Timeout, "AUTHORING_TIMEOUT")
}

func (c *Config) validatePortal() error {
	if err := validateServerHost(c.Portal.Server, "LEARN_SERVER"); err != nil {
		return err
	}
	if c.Portal.RequestsPerSecond < 0 {
		return fmt.Errorf("PORTAL_REQUESTS_PER_SECOND must not be negative")
	}
	return validateTimeout(c.Portal.Timeout, "PORTAL_TIMEOUT")
}

func (c *Config) validateLogPuller() error {
	if err := validateHTTPURL(c.LogPuller.ProductionURL, "LOG_PULLER_PRODUCTION_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.LogPuller.StagingURL, "LOG_PULLER_STAGING_URL"); err != nil {
		return err
	}
	return validateTimeout(c.LogPuller.Timeout, "LOG_PULLER_TIMEOUT")
}

// maxPrefetchConcurrency caps parallel upstream lookups per build.
const maxPrefetchConcurrency = 64

func (c *Config) validateBuild() error {
	if c.Build.PrefetchConcurrency < 0 || c.Build.PrefetchConcurrency > maxPrefetchConcurrency {
		return fmt.Errorf("PREFETCH_CONCURRENCY must be between 0 and %d", maxPrefetchConcurrency)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits checks rate limiting bounds unless limiting is disabled.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// ShouldWarnAboutCORS reports whether any origin may call the server.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func validateTimeout(d time.Duration, fieldName string) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

// validateServerHost accepts a bare host[:port] or an http(s) base URL.
func validateServerHost(server, fieldName string) error {
	if server == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if strings.Contains(server, "://") {
		return validateHTTPURL(server, fieldName)
	}
	if strings.ContainsAny(server, "/?# ") {
		return fmt.Errorf("%s must be a host name, got %q", fieldName, server)
	}
	return nil
}

// validateHTTPURL checks for an http(s) URL with a host and no query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
