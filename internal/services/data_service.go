package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pickpulse/internal/config"
	"pickpulse/internal/dataprocessing"
	apperrors "pickpulse/internal/errors"
	"pickpulse/internal/files"
	"pickpulse/internal/infrastructure"
	"pickpulse/internal/validation"
	"pickpulse/internal/websocket"
	"pickpulse/pkg/contracts/domain"
)

// DataService owns the upload registry and the combined dataset built from
// all successfully parsed workbooks. Uploads are parsed asynchronously; the
// registry entry moves pending -> processing -> completed or error, and each
// transition is broadcast over the WebSocket hub.
type DataService struct {
	config  *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	parser     *dataprocessing.Parser
	aggregator *dataprocessing.Aggregator
	validator  *validation.FileValidator
	files      *files.Manager
	hub        *websocket.Hub

	mu      sync.RWMutex
	uploads map[string]*domain.FileUpload
	order   []string
	parsed  map[string]dataprocessing.ParsedFile
}

// DataServiceDeps bundles the collaborators DataService needs
type DataServiceDeps struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Metrics *infrastructure.BusinessMetrics
	Hub     *websocket.Hub
	Files   *files.Manager
}

// NewDataService creates a new data service
func NewDataService(deps DataServiceDeps) (*DataService, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Paths == nil {
		paths, err := config.GetPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get paths: %w", err)
		}
		deps.Paths = paths
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "data_service"))

	if deps.Files == nil {
		deps.Files = files.NewManager(deps.Paths)
	}

	logger.Info("DataService initialized with paths",
		slog.String("data_dir", deps.Paths.DataDir),
		slog.String("uploads_dir", deps.Paths.UploadsDir),
		slog.String("reports_dir", deps.Paths.ReportsDir))

	return &DataService{
		config:  deps.Config,
		paths:   deps.Paths,
		logger:  logger,
		metrics: deps.Metrics,
		parser:  dataprocessing.NewParser(logger),
		aggregator: dataprocessing.NewAggregator(logger, dataprocessing.AggregatorConfig{
			NormalizeNames: deps.Config.Aggregation.NormalizeNames,
		}),
		validator: validation.NewFileValidator(logger, deps.Config.Upload.MaxSizeBytes),
		files:     deps.Files,
		hub:       deps.Hub,
		uploads:   make(map[string]*domain.FileUpload),
		parsed:    make(map[string]dataprocessing.ParsedFile),
	}, nil
}

// CreateUpload registers an uploaded workbook, saves it to the uploads
// directory and schedules asynchronous parsing. The returned FileUpload
// has status pending; poll the list endpoint or subscribe to the
// WebSocket hub for completion.
func (s *DataService) CreateUpload(ctx context.Context, fileName string, size int64, r io.Reader, declared domain.RecordKind) (*domain.FileUpload, error) {
	if err := s.validator.ValidateWorkbookName(fileName); err != nil {
		return nil, apperrors.NewValidationAppError("unsupported workbook", err)
	}
	if s.config.Upload.MaxSizeBytes > 0 && size > s.config.Upload.MaxSizeBytes {
		return nil, apperrors.NewValidationAppError(
			fmt.Sprintf("file %s exceeds the %d byte size limit", fileName, s.config.Upload.MaxSizeBytes), nil)
	}

	id := uuid.New().String()
	base := filepath.Base(fileName)

	// Prefix with the upload ID so repeated uploads of one workbook never
	// overwrite each other on disk.
	storedName := id + "_" + base
	path, err := s.files.SaveUpload(storedName, r)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to store upload", err)
	}

	upload := &domain.FileUpload{
		ID:           id,
		FileName:     base,
		DeclaredKind: declared,
		Status:       domain.UploadPending,
		SizeBytes:    size,
		UploadedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.uploads[id] = upload
	s.order = append(s.order, id)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.UploadsTotal.Add(ctx, 1)
		s.metrics.UploadBytesTotal.Add(ctx, size)
	}

	s.logger.InfoContext(ctx, "upload registered",
		slog.String("upload_id", id),
		slog.String("file", base),
		slog.String("declared_kind", string(declared)),
		slog.Int64("size_bytes", size))

	s.broadcastStatus(upload)

	go s.processUpload(infrastructure.EnsureTraceID(context.Background()), id, path)

	return s.snapshot(upload), nil
}

// processUpload parses one stored workbook and publishes the result.
// A parse failure is fatal for this upload only; the rest of the dataset
// is unaffected.
func (s *DataService) processUpload(ctx context.Context, id, path string) {
	upload := s.transition(id, func(u *domain.FileUpload) {
		u.Status = domain.UploadProcessing
	})
	if upload == nil {
		return
	}
	s.broadcastStatus(upload)

	start := time.Now()

	file, err := os.Open(path)
	var records []domain.Record
	if err == nil {
		defer file.Close()
		records, err = s.parser.ParseWorkbook(file, upload.FileName, upload.DeclaredKind)
	}

	infrastructure.RecordParseMetrics(ctx, s.metrics, upload.FileName, string(upload.DeclaredKind), len(records), time.Since(start), err)

	now := time.Now().UTC()
	if err != nil {
		s.logger.ErrorContext(ctx, "workbook parse failed",
			slog.String("upload_id", id),
			slog.String("file", upload.FileName),
			slog.String("error", err.Error()))

		upload = s.transition(id, func(u *domain.FileUpload) {
			u.Status = domain.UploadError
			u.Error = err.Error()
			u.ProcessedAt = &now
		})
		s.broadcastStatus(upload)
		return
	}

	s.mu.Lock()
	s.parsed[id] = dataprocessing.ParsedFile{FileName: upload.FileName, Records: records}
	s.mu.Unlock()

	upload = s.transition(id, func(u *domain.FileUpload) {
		u.Status = domain.UploadCompleted
		u.RecordCount = len(records)
		u.ProcessedAt = &now
	})

	s.logger.InfoContext(ctx, "workbook parsed",
		slog.String("upload_id", id),
		slog.String("file", upload.FileName),
		slog.Int("record_count", len(records)),
		slog.Duration("duration", time.Since(start)))

	if !s.config.Upload.KeepFiles {
		if err := os.Remove(path); err != nil {
			s.logger.WarnContext(ctx, "failed to remove parsed upload",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	s.broadcastStatus(upload)
	if s.hub != nil {
		s.hub.BroadcastDatasetRefresh(upload.FileName)
	}
}

// ListUploads returns all uploads in submission order
func (s *DataService) ListUploads(ctx context.Context) []*domain.FileUpload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.FileUpload, 0, len(s.order))
	for _, id := range s.order {
		if u, ok := s.uploads[id]; ok {
			out = append(out, s.snapshot(u))
		}
	}
	return out
}

// GetUpload returns one upload by ID
func (s *DataService) GetUpload(ctx context.Context, id string) (*domain.FileUpload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.uploads[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("upload %s not found", id), nil)
	}
	return s.snapshot(u), nil
}

// DeleteUpload removes an upload and its records from the dataset
func (s *DataService) DeleteUpload(ctx context.Context, id string) error {
	s.mu.Lock()
	u, ok := s.uploads[id]
	if !ok {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("upload %s not found", id), nil)
	}

	delete(s.uploads, id)
	delete(s.parsed, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	fileName := u.FileName
	s.mu.Unlock()

	// Remove the stored workbook if it is still on disk
	storedName := id + "_" + fileName
	if s.files.FileExists("uploads/" + storedName) {
		if err := s.files.DeleteFile("uploads/" + storedName); err != nil {
			s.logger.WarnContext(ctx, "failed to delete stored workbook",
				slog.String("upload_id", id),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "upload deleted",
		slog.String("upload_id", id),
		slog.String("file", fileName))

	if s.hub != nil {
		s.hub.BroadcastDatasetRefresh(fileName)
	}
	return nil
}

// Records returns the combined dataset across all completed uploads,
// in upload order.
func (s *DataService) Records(ctx context.Context) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combinedLocked()
}

// RecordFilter narrows the records query
type RecordFilter struct {
	Kind     domain.RecordKind
	Employee string
	Week     string
}

// FilteredRecords returns combined records matching the filter.
// String matches are case-insensitive.
func (s *DataService) FilteredRecords(ctx context.Context, filter RecordFilter) []domain.Record {
	records := s.Records(ctx)
	if filter.Kind == "" && filter.Employee == "" && filter.Week == "" {
		return records
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if filter.Kind != "" && r.Kind() != filter.Kind {
			continue
		}
		if filter.Employee != "" && !strings.EqualFold(r.EmployeeName(), filter.Employee) {
			continue
		}
		if filter.Week != "" && r.WeekID() != filter.Week {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EmployeePerformances recomputes per-employee aggregates from the
// combined dataset.
func (s *DataService) EmployeePerformances(ctx context.Context) []domain.EmployeePerformance {
	records := s.Records(ctx)

	start := time.Now()
	performances := s.aggregator.GenerateFromRecords(ctx, records)
	infrastructure.RecordAggregationMetrics(ctx, s.metrics, len(performances), time.Since(start))

	return performances
}

// PerformanceFilter narrows the employee performance query
type PerformanceFilter struct {
	Efficiency domain.EfficiencyTier
	MinBins    float64
}

// FilteredPerformances returns employee aggregates matching the filter
func (s *DataService) FilteredPerformances(ctx context.Context, filter PerformanceFilter) []domain.EmployeePerformance {
	performances := s.EmployeePerformances(ctx)
	if filter.Efficiency == "" && filter.MinBins <= 0 {
		return performances
	}

	out := make([]domain.EmployeePerformance, 0, len(performances))
	for _, p := range performances {
		if filter.Efficiency != "" && p.Efficiency != filter.Efficiency {
			continue
		}
		if filter.MinBins > 0 && p.TotalBins < filter.MinBins {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WeeklyTrends recomputes week-level aggregates from the combined dataset
func (s *DataService) WeeklyTrends(ctx context.Context) []domain.WeeklyTrend {
	return dataprocessing.WeeklyTrends(s.Records(ctx))
}

// Employees returns the distinct employee names present in the dataset,
// sorted alphabetically.
func (s *DataService) Employees(ctx context.Context) []string {
	records := s.Records(ctx)

	seen := make(map[string]struct{})
	var names []string
	for _, r := range records {
		name := r.EmployeeName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// combinedLocked builds the combined dataset; callers hold s.mu
func (s *DataService) combinedLocked() []domain.Record {
	parsed := make([]dataprocessing.ParsedFile, 0, len(s.parsed))
	for _, id := range s.order {
		if pf, ok := s.parsed[id]; ok {
			parsed = append(parsed, pf)
		}
	}
	return dataprocessing.Combine(parsed)
}

// transition applies a mutation to an upload under the lock and returns a
// snapshot of the result
func (s *DataService) transition(id string, mutate func(*domain.FileUpload)) *domain.FileUpload {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.uploads[id]
	if !ok {
		return nil
	}
	mutate(u)
	return s.snapshot(u)
}

// snapshot copies an upload so callers never share registry memory
func (s *DataService) snapshot(u *domain.FileUpload) *domain.FileUpload {
	cp := *u
	if u.ProcessedAt != nil {
		t := *u.ProcessedAt
		cp.ProcessedAt = &t
	}
	return &cp
}

func (s *DataService) broadcastStatus(u *domain.FileUpload) {
	if s.hub == nil || u == nil {
		return
	}
	s.hub.BroadcastUploadStatus(u)
}
