// Package http holds small response helpers shared by the handlers.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"walletdash/internal/log"
	"walletdash/internal/templates"
)

// RenderTemplate renders a full page template with data
func RenderTemplate(w http.ResponseWriter, renderer *templates.Renderer, templateName string, data map[string]any) {
	if renderer != nil {
		_ = renderer.Render(w, templateName, data)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<html><body><h1>" + templateName + "</h1><p>Templates not loaded. Check configuration.</p></body></html>"))
}

// RenderPartial renders a partial template with data
func RenderPartial(w http.ResponseWriter, renderer *templates.Renderer, partialName string, data any) {
	if renderer != nil {
		_ = renderer.RenderPartial(w, partialName, data)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<div><!-- Partial " + partialName + " not loaded --></div>"))
}

// ErrorResponse logs and sends an error response
func ErrorResponse(w http.ResponseWriter, logger *log.Logger, message string, statusCode int) {
	if logger != nil {
		logger.Error("Request failed", "message", message, "status", statusCode)
	}
	http.Error(w, message, statusCode)
}

// ServerError logs err with message and sends a 500 carrying only message
func ServerError(w http.ResponseWriter, logger *log.Logger, message string, err error) {
	if logger != nil {
		logger.Error(message, "error", err, "status", http.StatusInternalServerError)
	}
	http.Error(w, message, http.StatusInternalServerError)
}

// JSON writes v as a JSON response
func JSON(w http.ResponseWriter, logger *log.Logger, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ServerError(w, logger, "failed to encode response", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// QueryFloat parses a float query parameter, returning def when it is
// missing or invalid and clamping to [lo, hi]
func QueryFloat(r *http.Request, key string, def, lo, hi float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != v {
		return def
	}
	return min(max(v, lo), hi)
}
