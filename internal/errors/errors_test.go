package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	assert.Equal(t, "Invalid request format", err.Error())
}

func TestNew(t *testing.T) {
	err := New(http.StatusConflict, "INPUT_NOT_STAGED", "A required input file has not been uploaded")
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, "INPUT_NOT_STAGED", err.ErrorCode)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusUnprocessableEntity, "INPUT_NOT_TABULAR", "Input file could not be parsed", "bad header row")
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "bad header row", err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"snapshot not found", ErrSnapshotNotFound, http.StatusNotFound, "SNAPSHOT_NOT_FOUND"},
		{"table not found", ErrTableNotFound, http.StatusNotFound, "TABLE_NOT_FOUND"},
		{"input not staged", ErrInputNotStaged, http.StatusConflict, "INPUT_NOT_STAGED"},
		{"upload too large", ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
		{"input not tabular", ErrInputNotTabular, http.StatusUnprocessableEntity, "INPUT_NOT_TABULAR"},
		{"rate limit exceeded", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("monthly_target", "must be at least 1")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "monthly_target", detail.Field)
	assert.Equal(t, "must be at least 1", detail.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrSnapshotNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SNAPSHOT_NOT_FOUND", resp.Error.ErrorCode)
}
