package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pickpulse/internal/config"
	apperrors "pickpulse/internal/errors"
	"pickpulse/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, mutate func(*config.Config)) *DataService {
	t.Helper()

	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		UploadsDir:    filepath.Join(base, "data", "uploads"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	svc, err := NewDataService(DataServiceDeps{
		Config: cfg,
		Paths:  paths,
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	return svc
}

// pickWorkbook builds a one-employee pick sheet as xlsx bytes.
func pickWorkbook(t *testing.T, employee string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Pick Station Productivity Report"},
		{"Employee", "Total Picks"},
		{employee, 100, 1.5, 250, 300, 0.3, 2, 80, 0.8, 0.0625, 125, 600, 0.2},
		{"TOTALS", 999},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func waitTerminal(t *testing.T, svc *DataService, id string) *domain.FileUpload {
	t.Helper()

	var upload *domain.FileUpload
	require.Eventually(t, func() bool {
		u, err := svc.GetUpload(context.Background(), id)
		if err != nil {
			return false
		}
		upload = u
		return u.Terminal()
	}, 10*time.Second, 10*time.Millisecond, "upload never reached a terminal state")
	return upload
}

func TestCreateUpload_Lifecycle(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	buf := pickWorkbook(t, "J.DOE")
	upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", int64(buf.Len()), buf, "")
	require.NoError(t, err)
	assert.Equal(t, domain.UploadPending, upload.Status)
	assert.Equal(t, "pick stats 17.xlsx", upload.FileName)

	done := waitTerminal(t, svc, upload.ID)
	assert.Equal(t, domain.UploadCompleted, done.Status)
	assert.Equal(t, 1, done.RecordCount)
	require.NotNil(t, done.ProcessedAt)

	records := svc.Records(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "J.DOE", records[0].EmployeeName())
	assert.Equal(t, "17", records[0].WeekID())

	performances := svc.EmployeePerformances(ctx)
	require.Len(t, performances, 1)
	assert.Equal(t, "J.DOE", performances[0].Employee)
	assert.InDelta(t, 1.5, performances[0].TotalPickTime, 1e-9, "day fraction scaled to hours")
	assert.InDelta(t, 300, performances[0].TotalBins, 1e-9)
	assert.InDelta(t, 18, performances[0].AvgTimePerBin, 1e-9)
	assert.Equal(t, domain.EfficiencyLevel3, performances[0].Efficiency)

	trends := svc.WeeklyTrends(ctx)
	require.Len(t, trends, 1)
	assert.Equal(t, "17", trends[0].Week)
	assert.Equal(t, 1, trends[0].EmployeeCount)

	assert.Equal(t, []string{"J.DOE"}, svc.Employees(ctx))
}

func TestCreateUpload_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	t.Run("rejects non spreadsheet extension", func(t *testing.T) {
		_, err := svc.CreateUpload(ctx, "stats.csv", 10, strings.NewReader("x"), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("rejects office temp files", func(t *testing.T) {
		_, err := svc.CreateUpload(ctx, "~$pick stats 17.xlsx", 10, strings.NewReader("x"), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("rejects oversize uploads", func(t *testing.T) {
		small := newTestService(t, func(c *config.Config) { c.Upload.MaxSizeBytes = 16 })
		_, err := small.CreateUpload(ctx, "pick stats 17.xlsx", 1024, strings.NewReader("x"), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})
}

func TestCreateUpload_ParseFailure(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	body := strings.NewReader("this is not a zip archive")
	upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", body.Size(), body, "")
	require.NoError(t, err, "registration succeeds, the parse fails asynchronously")

	done := waitTerminal(t, svc, upload.ID)
	assert.Equal(t, domain.UploadError, done.Status)
	assert.NotEmpty(t, done.Error)

	assert.Empty(t, svc.Records(ctx), "failed uploads contribute no records")
}

func TestDeleteUpload(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	buf := pickWorkbook(t, "J.DOE")
	upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", int64(buf.Len()), buf, "")
	require.NoError(t, err)
	waitTerminal(t, svc, upload.ID)
	require.Len(t, svc.Records(ctx), 1)

	storedPath := svc.paths.GetUploadPath(upload.ID + "_pick stats 17.xlsx")
	_, statErr := os.Stat(storedPath)
	require.NoError(t, statErr, "workbook kept on disk while KeepFiles is on")

	require.NoError(t, svc.DeleteUpload(ctx, upload.ID))

	assert.Empty(t, svc.Records(ctx), "deleting an upload removes its records")
	assert.Empty(t, svc.ListUploads(ctx))
	_, statErr = os.Stat(storedPath)
	assert.True(t, os.IsNotExist(statErr), "stored workbook removed with the upload")

	err = svc.DeleteUpload(ctx, upload.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestGetUpload_NotFound(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.GetUpload(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestKeepFilesOff_RemovesParsedWorkbook(t *testing.T) {
	svc := newTestService(t, func(c *config.Config) { c.Upload.KeepFiles = false })
	ctx := context.Background()

	buf := pickWorkbook(t, "J.DOE")
	upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", int64(buf.Len()), buf, "")
	require.NoError(t, err)

	done := waitTerminal(t, svc, upload.ID)
	require.Equal(t, domain.UploadCompleted, done.Status)

	storedPath := svc.paths.GetUploadPath(upload.ID + "_pick stats 17.xlsx")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(storedPath)
		return os.IsNotExist(err)
	}, 5*time.Second, 10*time.Millisecond)

	assert.Len(t, svc.Records(ctx), 1, "records survive even when the file does not")
}

func TestFilteredRecords(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"J.DOE", "A.SMITH"} {
		buf := pickWorkbook(t, name)
		upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", int64(buf.Len()), buf, "")
		require.NoError(t, err)
		waitTerminal(t, svc, upload.ID)
	}

	t.Run("employee filter is case insensitive", func(t *testing.T) {
		records := svc.FilteredRecords(ctx, RecordFilter{Employee: "j.doe"})
		require.Len(t, records, 1)
		assert.Equal(t, "J.DOE", records[0].EmployeeName())
	})

	t.Run("kind filter", func(t *testing.T) {
		assert.Len(t, svc.FilteredRecords(ctx, RecordFilter{Kind: domain.KindPick}), 2)
		assert.Empty(t, svc.FilteredRecords(ctx, RecordFilter{Kind: domain.KindPack}))
	})

	t.Run("week filter", func(t *testing.T) {
		assert.Len(t, svc.FilteredRecords(ctx, RecordFilter{Week: "17"}), 2)
		assert.Empty(t, svc.FilteredRecords(ctx, RecordFilter{Week: "18"}))
	})

	t.Run("empty filter passes everything through", func(t *testing.T) {
		assert.Len(t, svc.FilteredRecords(ctx, RecordFilter{}), 2)
	})
}

func TestFilteredPerformances(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	buf := pickWorkbook(t, "J.DOE")
	upload, err := svc.CreateUpload(ctx, "pick stats 17.xlsx", int64(buf.Len()), buf, "")
	require.NoError(t, err)
	waitTerminal(t, svc, upload.ID)

	assert.Len(t, svc.FilteredPerformances(ctx, PerformanceFilter{Efficiency: domain.EfficiencyLevel3}), 1)
	assert.Empty(t, svc.FilteredPerformances(ctx, PerformanceFilter{Efficiency: domain.EfficiencyLevel1}))
	assert.Len(t, svc.FilteredPerformances(ctx, PerformanceFilter{MinBins: 100}), 1)
	assert.Empty(t, svc.FilteredPerformances(ctx, PerformanceFilter{MinBins: 1000}))
}
