package services

import (
	"context"
	"log/slog"
	"time"

	"pickpulse/pkg/contracts/domain"
)

// HealthService reports liveness and basic dataset statistics
type HealthService struct {
	logger  *slog.Logger
	data    *DataService
	started time.Time
	version string
}

// NewHealthService creates a new health service
func NewHealthService(logger *slog.Logger, data *DataService, version string) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		logger:  logger.With(slog.String("component", "health_service")),
		data:    data,
		started: time.Now(),
		version: version,
	}
}

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Uploads       int       `json:"uploads"`
	Completed     int       `json:"completed_uploads"`
	Records       int       `json:"records"`
	CheckedAt     time.Time `json:"checked_at"`
}

// Check returns the current health snapshot
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: time.Since(h.started).Seconds(),
		CheckedAt:     time.Now().UTC(),
	}

	if h.data != nil {
		uploads := h.data.ListUploads(ctx)
		status.Uploads = len(uploads)
		for _, u := range uploads {
			if u.Status == domain.UploadCompleted {
				status.Completed++
				status.Records += u.RecordCount
			}
		}
	}

	return status
}
