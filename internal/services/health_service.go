package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
)

// DatasetCounter reports how many datasets are held in memory
type DatasetCounter interface {
	Len() int
}

// HealthService provides health check functionality
type HealthService struct {
	version     string
	buildTime   string
	datasets    DatasetCounter
	maxDatasets int
	runtime     *infrastructure.RuntimeMetrics
	startTime   time.Time
	logger      *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   *RuntimeInfo             `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// RuntimeInfo describes the running process
type RuntimeInfo struct {
	UptimeSeconds float64                      `json:"uptime_seconds"`
	GoVersion     string                       `json:"go_version"`
	Goroutines    int                          `json:"goroutines"`
	Stats         *infrastructure.RuntimeStats `json:"stats,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// VersionInfo is the response of the version endpoint
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
}

// NewHealthService creates a health service. datasets and rt may be nil.
func NewHealthService(version, buildTime string, datasets DatasetCounter, maxDatasets int, rt *infrastructure.RuntimeMetrics, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:     version,
		buildTime:   buildTime,
		datasets:    datasets,
		maxDatasets: maxDatasets,
		runtime:     rt,
		startTime:   time.Now(),
		logger:      logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"datasets": hs.checkDatasets(),
		},
	}
}

// ReadinessCheck reports whether the service can accept uploads
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"datasets": hs.checkDatasets(),
		},
	}

	for _, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}
	if status.Status != "ready" {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}
	return status
}

// LivenessCheck returns liveness status with process statistics
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	info := &RuntimeInfo{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}
	if hs.runtime != nil {
		stats := hs.runtime.Snapshot()
		info.Stats = &stats
	}
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   info,
	}
}

// Version returns version information
func (hs *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   hs.version,
		BuildTime: hs.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		StartTime: hs.startTime.Format(time.RFC3339),
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// checkDatasets reports the dataset store. A full store still accepts uploads
// by evicting, so only a missing store is not ready.
func (hs *HealthService) checkDatasets() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset store not initialized"}
	}
	count := hs.datasets.Len()
	health := ServiceHealth{Status: "ready", Count: &count}
	if hs.maxDatasets > 0 && count >= hs.maxDatasets {
		health.Message = "dataset store is full; the oldest upload will be evicted"
	}
	return health
}
