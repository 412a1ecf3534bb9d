// Package app assembles the web application: configuration, logging,
// OpenTelemetry, the WebSocket hub, services, routing and graceful
// shutdown.
package app
