package validation

import (
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Spreadsheet MIME types the upload endpoint accepts. Browsers that cannot
// sniff the workbook type declare a generic octet-stream; that is tolerated
// because the extension check and the decode step still gate the content.
var allowedContentTypes = map[string]struct{}{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-excel": {},
	"application/octet-stream": {},
}

// FileValidator provides validation for uploaded and on-disk workbooks
type FileValidator struct {
	logger  *slog.Logger
	maxSize int64
}

// NewFileValidator creates a new file validator. maxSize caps uploaded
// workbook size in bytes; zero means no limit.
func NewFileValidator(logger *slog.Logger, maxSize int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:  logger,
		maxSize: maxSize,
	}
}

// ValidateWorkbookName checks that a filename looks like a spreadsheet
// the parser can handle. Temp files saved by Excel while a workbook is
// open start with "~$" and are rejected.
func (v *FileValidator) ValidateWorkbookName(name string) error {
	base := filepath.Base(name)
	if base == "" || base == "." {
		return fmt.Errorf("empty file name")
	}

	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejecting temporary Excel file",
			slog.String("file", base))
		return fmt.Errorf("file %s is a temporary Excel file", base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".xlsx" && ext != ".xls" {
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an Excel workbook (extension: %s)", base, ext)
	}

	return nil
}

// ValidateContentType checks the declared MIME type of an upload. An empty
// declaration is accepted; clients are not required to send one.
func (v *FileValidator) ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		v.logger.Warn("Rejecting malformed content type",
			slog.String("content_type", contentType))
		return fmt.Errorf("malformed content type %q", contentType)
	}

	if _, ok := allowedContentTypes[strings.ToLower(mediaType)]; !ok {
		v.logger.Warn("Rejecting upload with unsupported content type",
			slog.String("content_type", mediaType))
		return fmt.Errorf("content type %s is not an Excel workbook", mediaType)
	}

	return nil
}

// ValidateUpload checks a multipart upload header against name, content-type
// and size rules
func (v *FileValidator) ValidateUpload(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("missing file")
	}

	if err := v.ValidateWorkbookName(header.Filename); err != nil {
		return err
	}

	if err := v.ValidateContentType(header.Header.Get("Content-Type")); err != nil {
		return err
	}

	if v.maxSize > 0 && header.Size > v.maxSize {
		v.logger.Warn("Upload exceeds size limit",
			slog.String("file", header.Filename),
			slog.Int64("size", header.Size),
			slog.Int64("limit", v.maxSize))
		return fmt.Errorf("file %s exceeds the %d byte size limit", header.Filename, v.maxSize)
	}

	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that an on-disk file is a readable Excel workbook
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	return v.ValidateWorkbookName(path)
}

// ValidateInputDirectory validates that input directory exists and contains expected files
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern != "" {
		pattern := filepath.Join(dir, requiredPattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			v.logger.Error("Failed to check for files",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to check for files: %w", err)
		}

		if len(matches) == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
			// Not an error, just nothing to process
			return nil
		}

		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(matches)),
			slog.String("pattern", requiredPattern))
	}

	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
