// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package supervisor runs the report server's long-lived services under suture v4.

	RootSupervisor ("tereport")
	├── CacheSupervisor ("cache-layer")
	│   └── CacheService (if CACHE_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff; a failing HTTP listener
does not take the caches down with it. Supervisor events are logged through
sutureslog into the zerolog pipeline (see logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCacheService(services.NewCacheService(time.Minute, caches))
	tree.AddAPIService(services.NewHTTPServerService(server, 30*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
