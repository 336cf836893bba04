// Package app wires the admin dashboard together: configuration loading,
// logging and observability, the platform client, services, HTTP handlers,
// and the websocket hub, plus graceful shutdown of all of them.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and OpenTelemetry
//	3. Create the platform client
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Configure the HTTP server
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure active requests
// complete, websocket connections close cleanly, and final metrics are
// flushed. Initialization errors are returned to the caller; the app never
// calls os.Exit() directly.
package app
