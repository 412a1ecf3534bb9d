package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	UploadsDir    string
	ReportsDir    string
	LogsDir       string

	// Well-known report files written by the batch processor
	EmployeePerformanceCSV string
	WeeklyTrendsCSV        string
	RecordsCSV             string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are always resolved against the executable directory, never the
// current working directory, so the binary behaves the same wherever it is
// launched from.
//
// Directory structure:
//
//	<exe dir>/
//	  data/
//	    uploads/   (uploaded pick/pack workbooks)
//	    reports/   (generated CSV reports)
//	  logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")
	performanceCSV, trendsCSV, recordsCSV := ReportFilePaths(reportsDir)

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		UploadsDir:    filepath.Join(dataDir, "uploads"),
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		EmployeePerformanceCSV: performanceCSV,
		WeeklyTrendsCSV:        trendsCSV,
		RecordsCSV:             recordsCSV,
	}, nil
}

// ReportFilePaths returns the three well-known report files rooted at dir.
// The batch processor uses this to honor a caller-chosen output directory.
func ReportFilePaths(dir string) (performanceCSV, trendsCSV, recordsCSV string) {
	return filepath.Join(dir, "employee_performance.csv"),
		filepath.Join(dir, "weekly_trends.csv"),
		filepath.Join(dir, "records.csv")
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.UploadsDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetUploadPath returns the full path for an uploaded workbook
func (p *Paths) GetUploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filename)
}

// GetReportPath returns the full path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
