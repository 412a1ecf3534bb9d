package domain

import "time"

// UploadStatus tracks one submitted file through its processing lifecycle.
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadError      UploadStatus = "error"
)

// FileUpload is the presentation-facing state of one uploaded spreadsheet.
// Status transitions are pending -> processing -> completed or error; a
// transition is applied as a single atomic update per file.
type FileUpload struct {
	ID           string       `json:"id" validate:"required,uuid"`
	FileName     string       `json:"file_name" validate:"required"`
	DeclaredKind RecordKind   `json:"declared_kind,omitempty" validate:"omitempty,oneof=pick pack"`
	Status       UploadStatus `json:"status"`
	Error        string       `json:"error,omitempty"`
	RecordCount  int          `json:"record_count"`
	SizeBytes    int64        `json:"size_bytes"`
	UploadedAt   time.Time    `json:"uploaded_at"`
	ProcessedAt  *time.Time   `json:"processed_at,omitempty"`
}

// Terminal reports whether the upload reached a final state.
func (u *FileUpload) Terminal() bool {
	return u.Status == UploadCompleted || u.Status == UploadError
}
