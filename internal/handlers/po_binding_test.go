package handlers

import (
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func intPtr(n int) *int { return &n }

func TestValidatePOBatch(t *testing.T) {
	tests := []struct {
		name    string
		pos     []PORequest
		maxDocs int
		wantErr string
	}{
		{
			name:    "valid batch",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100}, {PONumber: "PO-2", Amount: 50}},
			maxDocs: 20,
		},
		{
			name:    "zero amount rejected with position",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100}, {PONumber: "PO-2", Amount: 0}},
			maxDocs: 20,
			wantErr: "PO 2: Amount must be greater than 0",
		},
		{
			name:    "negative amount rejected",
			pos:     []PORequest{{PONumber: "PO-1", Amount: -5}},
			maxDocs: 20,
			wantErr: "PO 1: Amount must be greater than 0",
		},
		{
			name:    "file index out of range",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100, FileIndex: intPtr(20)}},
			maxDocs: 20,
			wantErr: "PO 1: Invalid file_index 20. Must be between 0-19",
		},
		{
			name:    "negative file index",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100, FileIndex: intPtr(-1)}},
			maxDocs: 20,
			wantErr: "PO 1: Invalid file_index -1. Must be between 0-19",
		},
		{
			name:    "file index respects configured ceiling",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100, FileIndex: intPtr(5)}},
			maxDocs: 5,
			wantErr: "PO 1: Invalid file_index 5. Must be between 0-4",
		},
		{
			name:    "duplicate number rejects whole batch at first occurrence",
			pos:     []PORequest{{PONumber: "PO-1", Amount: 100}, {PONumber: "PO-1", Amount: 50}},
			maxDocs: 20,
			wantErr: "PO number 'PO-1' is duplicated. Each PO must have a unique number",
		},
		{
			name:    "empty numbers are not duplicates",
			pos:     []PORequest{{Amount: 100}, {Amount: 50}},
			maxDocs: 20,
		},
		{
			name:    "empty batch",
			pos:     nil,
			maxDocs: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePOBatch(tt.pos, tt.maxDocs)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEffectiveFileIndex(t *testing.T) {
	if got := effectiveFileIndex(PORequest{}, 3); got != 3 {
		t.Errorf("default file index = %d, want position 3", got)
	}
	if got := effectiveFileIndex(PORequest{FileIndex: intPtr(7)}, 3); got != 7 {
		t.Errorf("explicit file index = %d, want 7", got)
	}
	if got := effectiveFileIndex(PORequest{FileIndex: intPtr(0)}, 3); got != 0 {
		t.Errorf("explicit zero file index = %d, want 0", got)
	}
}

func TestValidatePODocument(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{"pdf allowed", "contract.pdf", 1024, ""},
		{"uppercase extension allowed", "scan.JPG", 1024, ""},
		{"xlsx allowed", "budget.xlsx", 1024, ""},
		{"exe rejected", "setup.exe", 1024, "PO 2: File type .exe not allowed"},
		{"no extension rejected", "README", 1024, "PO 2: File type  not allowed"},
		{"empty file rejected", "empty.pdf", 0, "PO 2: Uploaded file is empty"},
		{"oversized rejected", "huge.pdf", maxPODocumentBytes + 1, "PO 2: File size exceeds 10MB limit"},
		{"exactly at limit allowed", "max.pdf", maxPODocumentBytes, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}
			err := validatePODocument(fh, 2)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPODocumentName(t *testing.T) {
	projectUUID := uuid.New()

	name := poDocumentName(projectUUID, "PO/2024\\001", 1, "contract.PDF")
	if strings.ContainsAny(name, "/\\") {
		t.Errorf("generated name contains path separators: %q", name)
	}
	wantPrefix := fmt.Sprintf("PO_%s_PO_2024_001_", projectUUID)
	if !strings.HasPrefix(name, wantPrefix) {
		t.Errorf("name = %q, want prefix %q", name, wantPrefix)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("name = %q, want lowercase .pdf suffix", name)
	}

	// Unnumbered POs fall back to their position.
	name = poDocumentName(projectUUID, "", 3, "doc.txt")
	if !strings.Contains(name, "_PO3_") {
		t.Errorf("fallback name = %q, want it to contain _PO3_", name)
	}

	// Distinct calls never collide.
	a := poDocumentName(projectUUID, "PO-1", 1, "a.pdf")
	b := poDocumentName(projectUUID, "PO-1", 1, "a.pdf")
	if a == b {
		t.Errorf("two generated names collided: %q", a)
	}
}
