package http

import (
	"context"
	"io"

	"pickpulse/internal/services"
	"pickpulse/pkg/contracts/domain"
)

// DataServiceInterface is the service surface the handlers depend on.
// *services.DataService satisfies it; tests substitute fakes.
type DataServiceInterface interface {
	CreateUpload(ctx context.Context, fileName string, size int64, r io.Reader, declared domain.RecordKind) (*domain.FileUpload, error)
	ListUploads(ctx context.Context) []*domain.FileUpload
	GetUpload(ctx context.Context, id string) (*domain.FileUpload, error)
	DeleteUpload(ctx context.Context, id string) error

	Records(ctx context.Context) []domain.Record
	FilteredRecords(ctx context.Context, filter services.RecordFilter) []domain.Record
	EmployeePerformances(ctx context.Context) []domain.EmployeePerformance
	FilteredPerformances(ctx context.Context, filter services.PerformanceFilter) []domain.EmployeePerformance
	WeeklyTrends(ctx context.Context) []domain.WeeklyTrend
	Employees(ctx context.Context) []string
}
