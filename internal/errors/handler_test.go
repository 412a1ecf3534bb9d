package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/internal/infrastructure"
)

func testHandler(includeStack bool) *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), includeStack)
}

func TestErrorToProblem(t *testing.T) {
	handler := testHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "parsing app error maps to unprocessable upload",
			err:        NewParsingError("failed to decode spreadsheet x.xlsx", fmt.Errorf("zip: not a valid zip file")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeParseFailed,
		},
		{
			name:       "validation app error",
			err:        NewValidationAppError("file name required", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "not found app error",
			err:        NewNotFoundError("upload abc not found", nil),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "storage app error stays internal",
			err:        NewStorageError("disk write failed", fmt.Errorf("no space left")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
		{
			name:       "api error carries its status",
			err:        UploadNotFoundError("abc"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeUploadNotFound,
		},
		{
			name:       "deadline exceeded maps to timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error stays opaque",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/uploads/abc", problem.Instance)
		})
	}
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	handler := testHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, NewNotFoundError("upload abc not found", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "upload abc not found", body["detail"])
	assert.NotContains(t, body, "stack")
}

func TestHandleError_CarriesContextTraceID(t *testing.T) {
	handler := testHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1234"))
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, NewNotFoundError("upload abc not found", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "trace-1234", body["trace_id"])
}

func TestHandleError_IncludesStackInDevelopment(t *testing.T) {
	handler := testHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/employees", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, fmt.Errorf("boom"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "stack")
}

func TestProblemDetails_MarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad kind", "/api/uploads").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.Equal(t, TypeValidation, body["type"])
}

func TestIsType(t *testing.T) {
	err := NewParsingError("bad sheet", nil)
	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeParsing))
}
