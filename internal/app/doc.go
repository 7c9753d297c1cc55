// Package app wires the dashboard together and owns its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from .env, config.yaml and SCD_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Start the WebSocket hub
//  4. Load the workbook; a load or parse failure aborts startup
//  5. Create the workbook watcher and reload schedule when configured
//  6. Build the chi router and the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down within
// Server.ShutdownTimeout.
package app
