// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for Cinematch using suture v4.

Long-running services are grouped into three layers:

	RootSupervisor ("cinematch")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogService (startup load, interval and file-change reloads)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventListener (catalog.reloaded consumer)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts independently with suture's exponential backoff.
Supervisor events are logged through sutureslog into the zerolog logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCatalogService(catalogSvc)
	tree.AddMessagingService(listener)
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))
	err = tree.Serve(ctx)

See the services subpackage for the service wrappers.
*/
package supervisor
