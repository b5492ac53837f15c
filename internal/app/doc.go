// Package app wires the application together: configuration, logging,
// telemetry, services, HTTP router and server lifecycle.
package app
