package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "nothing here")
	assert.Equal(t, "nothing here", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "NOT_FOUND", err.ErrorCode)
}

func TestLoadErrorCarriesDetail(t *testing.T) {
	cause := fmt.Errorf("row 7: column Close: invalid value %q", "abc")
	apiErr := LoadError(cause)

	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "LOAD_ERROR", apiErr.ErrorCode)
	assert.Equal(t, cause.Error(), apiErr.Details)
}

func TestErrValidation(t *testing.T) {
	apiErr := ErrValidation("eda", "must be true or false")

	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	detail, ok := apiErr.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "eda", detail.Field)
}

func TestHandleErrorWithAPIError(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/x", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DATASET_NOT_FOUND", resp.Error.ErrorCode)
}

func TestHandleErrorWrappedAPIError(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	wrapped := fmt.Errorf("loading dataset: %w", ErrLoadFailed)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, wrapped)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOAD_ERROR")
}

func TestHandleErrorUnknownBecomes500(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, errors.New("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestHandleErrorNil(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Empty(t, rec.Body.String())
}
