package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"walletdash/internal/log"
)

func TestQueryFloat(t *testing.T) {
	tests := []struct {
		query string
		want  float64
	}{
		{"", 1},
		{"dpr=2", 2},
		{"dpr=abc", 1},
		{"dpr=NaN", 1},
		{"dpr=0", 0.5},
		{"dpr=10", 4},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/chart.png?"+tt.query, nil)
		assert.Equal(t, tt.want, QueryFloat(r, "dpr", 1, 0.5, 4), tt.query)
	}
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, nil, map[string]string{"status": "ok"})
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	JSON(w, nil, func() {})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRenderWithoutTemplates(t *testing.T) {
	w := httptest.NewRecorder()
	RenderTemplate(w, nil, "dashboard.html", nil)
	assert.Contains(t, w.Body.String(), "Templates not loaded")

	w = httptest.NewRecorder()
	RenderPartial(w, nil, "transactions-list", nil)
	assert.Contains(t, w.Body.String(), "transactions-list")
}

func TestServerErrorLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})

	w := httptest.NewRecorder()
	ServerError(w, logger, "Error creating backup", errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error creating backup\n", w.Body.String())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), "disk on fire")
}
