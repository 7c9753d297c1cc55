package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "supplychain/internal/errors"
	"supplychain/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedMsg    string
	}{
		{
			name:           "valid log entry",
			body:           `{"level":"info","message":"chart drawn","source":"dashboard","data":{"kind":"scatter"}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "chart drawn",
		},
		{
			name:           "error level",
			body:           `{"level":"error","message":"websocket closed"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
			expectedMsg:    "websocket closed",
		},
		{
			name:           "unknown level falls back to info",
			body:           `{"level":"verbose","message":"hello"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "hello",
		},
		{
			name:           "invalid json",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

			req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedMsg != "" {
				testutil.AssertLogContains(t, logs, tt.expectedLevel, tt.expectedMsg)
			}
		})
	}
}

func TestClientLogHandler_LargePayload(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

	body := `{"level":"info","message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, logs.ContainsMessage(strings.Repeat("x", 10)))
}
