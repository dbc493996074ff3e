package handlers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"nirmaan-backend/config"
)

func setupTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	oldUpload, oldStaging := config.UploadDir, config.StagingDir
	config.UploadDir = filepath.Join(root, "uploads")
	config.StagingDir = filepath.Join(root, "uploads", ".staging")
	if err := os.MkdirAll(config.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		config.UploadDir, config.StagingDir = oldUpload, oldStaging
	})
}

func writeStaged(t *testing.T, name string) stagedFile {
	t.Helper()
	sf := stagedFile{
		StagedPath: filepath.Join(config.StagingDir, name),
		FinalPath:  filepath.Join(config.UploadDir, name),
	}
	if err := os.WriteFile(sf.StagedPath, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	return sf
}

func TestFinalizeStagedFiles(t *testing.T) {
	setupTestDirs(t)
	sf := writeStaged(t, "doc.pdf")

	finalizeStagedFiles([]stagedFile{sf})

	if _, err := os.Stat(sf.FinalPath); err != nil {
		t.Errorf("finalized file missing: %v", err)
	}
	if _, err := os.Stat(sf.StagedPath); !os.IsNotExist(err) {
		t.Errorf("staged copy still present after finalize")
	}
}

func TestDiscardStagedFiles(t *testing.T) {
	setupTestDirs(t)
	sf := writeStaged(t, "doc.pdf")

	discardStagedFiles([]stagedFile{sf})

	if _, err := os.Stat(sf.StagedPath); !os.IsNotExist(err) {
		t.Errorf("staged file still present after discard")
	}
	if _, err := os.Stat(sf.FinalPath); !os.IsNotExist(err) {
		t.Errorf("discarded file appeared in upload dir")
	}

	// Discarding again must not error or create anything.
	discardStagedFiles([]stagedFile{sf})
}

func TestSweepStagingDir(t *testing.T) {
	setupTestDirs(t)
	stale := writeStaged(t, "stale.pdf")
	fresh := writeStaged(t, "fresh.pdf")

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale.StagedPath, old, old); err != nil {
		t.Fatal(err)
	}

	SweepStagingDir(time.Hour)

	if _, err := os.Stat(stale.StagedPath); !os.IsNotExist(err) {
		t.Errorf("stale staged file survived the sweep")
	}
	if _, err := os.Stat(fresh.StagedPath); err != nil {
		t.Errorf("fresh staged file was swept: %v", err)
	}
}

func TestFileURL(t *testing.T) {
	oldHost := config.HostURL
	config.HostURL = "http://files.test"
	defer func() { config.HostURL = oldHost }()

	if got := fileURL(""); got != "" {
		t.Errorf("fileURL(\"\") = %q, want empty", got)
	}
	if got := fileURL(filepath.Join("uploads", "doc.pdf")); got != "http://files.test/uploads/doc.pdf" {
		t.Errorf("fileURL = %q", got)
	}
}
