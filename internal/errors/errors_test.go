package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{name: "dataset not found", err: ErrDatasetNotFound, wantStatus: http.StatusNotFound, wantCode: "DATASET_NOT_FOUND"},
		{name: "parse failure", err: ParseFailure(fmt.Errorf("error reading the file: bad quote")), wantStatus: http.StatusUnprocessableEntity, wantCode: "PARSE_ERROR"},
		{name: "missing columns", err: MissingColumns([]string{"date", "close"}, []string{"close"}), wantStatus: http.StatusUnprocessableEntity, wantCode: "MISSING_COLUMNS"},
		{name: "column not found", err: ColumnNotFound([]string{"adj_close"}), wantStatus: http.StatusBadRequest, wantCode: "COLUMN_NOT_FOUND"},
		{name: "validation", err: ErrValidation("start_date", "must be a date"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	tests := []struct {
		name     string
		sentinel *APIError
		details  interface{}
		wantCode string
	}{
		{name: "invalid request", sentinel: ErrInvalidRequest, details: "unexpected EOF", wantCode: "INVALID_REQUEST"},
		{name: "validation failed", sentinel: ErrValidationFailed, details: "start_date must be a date", wantCode: "VALIDATION_FAILED"},
		{name: "missing parameter", sentinel: ErrMissingParameter, details: ValidationError{Field: "file"}, wantCode: "MISSING_PARAMETER"},
		{name: "invalid parameter", sentinel: ErrInvalidParameter, details: ValidationError{Field: "id"}, wantCode: "INVALID_PARAMETER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sentinel.WithDetails(tt.details)
			assert.Equal(t, http.StatusBadRequest, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
			assert.Equal(t, tt.details, got.Details)
			assert.Nil(t, tt.sentinel.Details)
		})
	}

	assert.Equal(t, ErrInvalidRequest.ErrorCode, InvalidRequestWithError(errors.New("bad json")).ErrorCode)
	assert.Equal(t, ValidationError{Field: "end_date", Message: "required"}, ErrValidation("end_date", "required").Details)
}

func TestMissingColumns_Details(t *testing.T) {
	err := MissingColumns([]string{"date", "close", "volume"}, []string{"volume"})
	assert.Equal(t, "The file must have the following columns: date, close, volume", err.Message)

	details, ok := err.Details.(MissingColumnsDetails)
	require.True(t, ok)
	assert.Equal(t, []string{"volume"}, details.Missing)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrPayloadTooLarge)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewExportError("failed to write workbook", cause).WithContext("format", "xlsx")

	assert.Equal(t, "[EXPORT] failed to write workbook: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "xlsx", err.Context["format"])

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", NewNotFoundError("dataset")), &appErr)
	assert.Equal(t, ErrTypeNotFound, appErr.Type)
	assert.Equal(t, "[NOT_FOUND] dataset not found", appErr.Error())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeDatasetNotFound, "Not Found", "gone", "/api/datasets/x").
		WithExtension("error_code", "DATASET_NOT_FOUND")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, TypeDatasetNotFound, out["type"])
	assert.Equal(t, float64(http.StatusNotFound), out["status"])
	assert.Equal(t, "gone", out["detail"])
	assert.Equal(t, "DATASET_NOT_FOUND", out["error_code"])
}
