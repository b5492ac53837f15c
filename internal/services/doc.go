// Package services holds the application services behind the HTTP handlers:
// the dashboard service (upload staging, generation, atomic snapshot
// publishing) and the health service.
package services
