// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package config loads and validates the report server's configuration.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. Later layers win.

# Config File

The file is taken from CONFIG_PATH, else the first of config.yaml,
config.yml, /etc/tereport/config.yaml, /etc/tereport/config.yml that exists.

	server:
	  port: 3000
	authoring:
	  server: authoring.concord.org
	portal:
	  server: learn.concord.org
	build:
	  prefetch_concurrency: 8
	cache:
	  enabled: true
	  ttl: 10m

# Environment Variables

Upstream services:
  - AUTHORING_SERVER: LARA host (default: authoring.staging.concord.org)
  - AUTHORING_API_KEY: bearer token for content exports
  - LEARN_SERVER: Portal host (default: learn.staging.concord.org)
  - LOG_PULLER_PRODUCTION_URL, LOG_PULLER_STAGING_URL, LOG_PULLER_PRODUCTION_DOMAINS
  - TEACHER_DIRECTORY_FILE: YAML map of teacher id to display name

Server:
  - PORT: listen port (default: 3000)
  - HTTP_HOST, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, MAX_BODY_BYTES

Pipeline:
  - PREFETCH_CONCURRENCY: parallel upstream lookups per build (default: 8)
  - CACHE_ENABLED, CACHE_TTL: cross-build cache (default: true, 10m)

Security:
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line
*/
package config
