// Package app wires the dashboard server together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, config.yaml, STOCKDASH_* variables)
//  2. Initialize the slog logger and OpenTelemetry providers
//  3. Create business and runtime metrics
//  4. Create the in-memory dataset store, wired to the active dataset gauge
//  5. Initialize the dashboard and health services
//  6. Build the chi router and its middleware stack
//  7. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run starts the HTTP server, the dataset janitor and the runtime collector
// under one errgroup. SIGINT, SIGTERM or a cancelled context stops all of
// them; in-flight requests get Server.ShutdownTimeout to finish and the
// telemetry providers are flushed.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit, leaving the exit code to main.
package app
