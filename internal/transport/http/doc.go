// Package http contains the HTTP handlers for the dashboard API: input
// uploads, generation, snapshot and table reads, CSV export, and health.
// Handlers translate service errors into structured JSON error responses and
// leave all domain logic to the services layer.
package http
