package config

import (
	"log/slog"
	"os"
	"strconv"
)

var (
	// JwtKey signs nothing here; it only verifies tokens issued by the auth service.
	JwtKey []byte

	// HostURL is prepended to stored file paths when building document URLs.
	HostURL string

	// UploadDir is where finalized documents live. StagingDir holds files that
	// have been received but whose database rows are not committed yet.
	UploadDir  string
	StagingDir string

	// MaxPODocuments is the number of po_document_<i> slots accepted on
	// project creation.
	MaxPODocuments int
)

func LoadConfig() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}
	JwtKey = []byte(jwtSecret)

	HostURL = getEnv("HOST_URL", "http://localhost:8000")
	UploadDir = getEnv("UPLOAD_DIR", "uploads")
	StagingDir = getEnv("STAGING_DIR", "uploads/.staging")

	MaxPODocuments = 20
	if v := os.Getenv("MAX_PO_DOCS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			slog.Warn("Invalid MAX_PO_DOCS value, keeping default", "value", v, "default", MaxPODocuments)
		} else {
			MaxPODocuments = n
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
