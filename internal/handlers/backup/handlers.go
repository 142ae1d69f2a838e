// Package backup serves a zip download of the dataset files the dashboard
// was loaded from.
package backup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apphttp "walletdash/internal/http"
	"walletdash/internal/log"
	"walletdash/internal/services/dataloader"
	"walletdash/internal/services/storage"
)

var (
	store  *storage.Storage
	loader *dataloader.DataLoader
	logger *log.Logger
)

// Initialize sets up the backup package with required dependencies
func Initialize(s *storage.Storage, l *dataloader.DataLoader, lg *log.Logger) {
	store = s
	loader = l
	if lg == nil {
		lg = log.Discard()
	}
	logger = lg.WithComponent("backup")
}

// RegisterRoutes registers backup routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/backup", HandleBackup)
}

// HandleBackup streams the loaded files as a zip. Encrypted files are
// written decrypted for portability.
func HandleBackup(w http.ResponseWriter, r *http.Request) {
	if store == nil || !store.IsUnlocked() {
		apphttp.ErrorResponse(w, logger, "No readable data directory", http.StatusServiceUnavailable)
		return
	}

	files := loader.Stats().Files
	if len(files) == 0 {
		apphttp.ErrorResponse(w, logger, "No dataset files loaded", http.StatusNotFound)
		return
	}

	archive, err := buildArchive(store, files)
	if err != nil {
		apphttp.ServerError(w, logger, "Error creating backup", err)
		return
	}

	filename := fmt.Sprintf("walletdash_backup_%s.zip", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	if _, err := w.Write(archive); err != nil {
		logger.Warn("Error writing backup", "error", err)
		return
	}
	logger.Info("Backup served", "files", len(files), "bytes", len(archive))
}

// buildArchive zips the named files, read through the store
func buildArchive(s *storage.Storage, files []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range files {
		data, err := s.ReadFile(name)
		if err != nil {
			return nil, err
		}
		f, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
