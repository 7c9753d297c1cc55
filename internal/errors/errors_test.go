package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{name: "simple", err: New(http.StatusBadRequest, "BAD", "bad thing"), expected: "bad thing"},
		{name: "with details", err: NewWithDetails(http.StatusNotFound, "NF", "missing", "x"), expected: "missing"},
		{name: "empty message", err: New(http.StatusInternalServerError, "X", ""), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, render.Render(w, r, ErrDatasetUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"])
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
		code   string
	}{
		{ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{ErrInvalidParameter, http.StatusBadRequest, "INVALID_PARAMETER"},
		{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrChartNotFound, http.StatusNotFound, "CHART_NOT_FOUND"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{ErrDatasetUnavailable, http.StatusServiceUnavailable, "DATASET_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("read orders.xlsx: %w", stderrors.New("no such file"))
	err := Wrap(ErrDatasetUnavailable, cause)

	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Same(t, ErrDatasetUnavailable, apiErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, Cause(err))
	assert.Contains(t, err.Error(), "no such file")

	t.Run("nil cause returns the api error", func(t *testing.T) {
		assert.Equal(t, error(ErrNotFound), Wrap(ErrNotFound, nil))
		assert.Nil(t, Cause(ErrNotFound))
	})
}

func TestHelperConstructors(t *testing.T) {
	t.Run("invalid request", func(t *testing.T) {
		err := InvalidRequestWithError(stderrors.New("bad date"))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, "bad date", err.Details)
	})

	t.Run("field validation", func(t *testing.T) {
		err := ErrValidation("from", "must be YYYY-MM-DD")
		assert.Equal(t, ValidationError{Field: "from", Message: "must be YYYY-MM-DD"}, err.Details)
	})

	t.Run("not found", func(t *testing.T) {
		err := NotFoundError("chart")
		assert.Equal(t, "chart not found", err.Message)
	})

	t.Run("multiple validation errors", func(t *testing.T) {
		err := NewValidationErrors([]ValidationError{{Field: "from"}, {Field: "to"}})
		details, ok := err.Details.(ValidationErrors)
		require.True(t, ok)
		assert.Len(t, details.Errors, 2)
	})

	t.Run("panic", func(t *testing.T) {
		err := ErrPanic("boom")
		assert.Equal(t, PanicRecovery{Message: "boom"}, err.Details)
	})

	t.Run("filesystem", func(t *testing.T) {
		err := FileSystemError("stat", stderrors.New("denied"))
		assert.Equal(t, "File system error during stat", err.Message)
	})

	assert.Equal(t, http.StatusBadRequest, NewValidationError("x").StatusCode)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("x").StatusCode)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusServiceUnavailable, TypeDatasetUnavailable, "Service Unavailable", "reload failed", "/api/dashboard").
		WithExtension("trace_id", "abc").
		WithExtension("status", 200)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeDatasetUnavailable, body["type"])
	assert.Equal(t, "reload failed", body["detail"])
	assert.Equal(t, "/api/dashboard", body["instance"])
	assert.Equal(t, "abc", body["trace_id"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), body["status"], "extensions must not shadow standard members")

	t.Run("omits empty detail and instance", func(t *testing.T) {
		data, err := json.Marshal(NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", ""))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "detail")
		assert.NotContains(t, string(data), "instance")
	})
}

func TestProblemDetails_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/charts/x.svg", nil)

	require.NoError(t, render.Render(w, r, NewProblemDetails(http.StatusNotFound, TypeChartNotFound, "Not Found", "", "")))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProblemDetails_WithExtensionOnZeroValue(t *testing.T) {
	var pd ProblemDetails
	pd.WithExtension("k", "v")
	assert.Equal(t, "v", pd.Extensions["k"])
}
