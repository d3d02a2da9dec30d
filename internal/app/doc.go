// Package app wires the dashboard server together: configuration, logging,
// metrics, services, the Chi router with its middleware chain, and the HTTP
// server lifecycle with graceful shutdown.
package app
