package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality.
type HealthService struct {
	version   string
	buildTime string
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response.
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	BuildTime string         `json:"build_time,omitempty"`
	Runtime   RuntimeDetails `json:"runtime"`
}

// RuntimeDetails describes the running process.
type RuntimeDetails struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	GoVersion     string  `json:"go_version"`
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
	Goroutines    int     `json:"goroutines"`
}

// NewHealthService creates a new health service.
func NewHealthService(version, buildTime string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check returns the current health status.
func (s *HealthService) Check(_ context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		BuildTime: s.buildTime,
		Runtime: RuntimeDetails{
			UptimeSeconds: time.Since(s.startTime).Seconds(),
			GoVersion:     runtime.Version(),
			OS:            runtime.GOOS,
			Arch:          runtime.GOARCH,
			Goroutines:    runtime.NumGoroutine(),
		},
	}
}
