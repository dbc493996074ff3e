// nirmaan-backend/internal/handlers/file_store.go
package handlers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nirmaan-backend/config"

	"github.com/gin-gonic/gin"
)

// stagedFile is a document written to the staging directory but not yet moved
// to its final path. Database rows reference FinalPath; the rename happens
// only after the transaction commits.
type stagedFile struct {
	StagedPath string
	FinalPath  string
}

// stageUploadedFile writes the multipart file under the staging directory.
// fileName must already be collision-free.
func stageUploadedFile(c *gin.Context, formKey, fileName string) (stagedFile, error) {
	fh, err := c.FormFile(formKey)
	if err != nil {
		return stagedFile{}, fmt.Errorf("error getting file from form '%s': %w", formKey, err)
	}

	if err := os.MkdirAll(config.StagingDir, os.ModePerm); err != nil {
		return stagedFile{}, fmt.Errorf("failed to create staging directory: %w", err)
	}

	sf := stagedFile{
		StagedPath: filepath.Join(config.StagingDir, fileName),
		FinalPath:  filepath.Join(config.UploadDir, fileName),
	}
	if err := c.SaveUploadedFile(fh, sf.StagedPath); err != nil {
		return stagedFile{}, fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return sf, nil
}

// finalizeStagedFiles moves committed documents into the upload directory.
// A failed rename leaves the database row pointing at a missing file; that is
// logged and left for the operator, stored paths are never re-validated.
func finalizeStagedFiles(files []stagedFile) {
	for _, sf := range files {
		if err := os.MkdirAll(filepath.Dir(sf.FinalPath), os.ModePerm); err != nil {
			slog.Error("Failed to create upload directory", "path", sf.FinalPath, "error", err)
			continue
		}
		if err := os.Rename(sf.StagedPath, sf.FinalPath); err != nil {
			slog.Error("Failed to finalize staged file", "staged", sf.StagedPath, "final", sf.FinalPath, "error", err)
		}
	}
}

// discardStagedFiles removes staged documents after a failed request.
func discardStagedFiles(files []stagedFile) {
	for _, sf := range files {
		if err := os.Remove(sf.StagedPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove staged file", "path", sf.StagedPath, "error", err)
		}
	}
}

// SweepStagingDir deletes staged files older than maxAge. Files can be left
// behind when the process dies between staging and finalize/discard.
func SweepStagingDir(maxAge time.Duration) {
	entries, err := os.ReadDir(config.StagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read staging directory", "error", err)
		}
		return
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(config.StagingDir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("Failed to remove stale staged file", "path", path, "error", err)
		} else {
			slog.Info("Removed stale staged file", "path", path)
		}
	}
}

// StartStagingSweeper runs SweepStagingDir on a ticker.
func StartStagingSweeper(interval, maxAge time.Duration) {
	go func() {
		for range time.Tick(interval) {
			SweepStagingDir(maxAge)
		}
	}()
}

// fileURL turns a stored relative path into a client-facing URL.
func fileURL(path string) string {
	if path == "" {
		return ""
	}
	return config.HostURL + "/" + filepath.ToSlash(path)
}
