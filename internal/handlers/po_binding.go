package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxPODocumentBytes is the per-document size ceiling.
const maxPODocumentBytes = 10 << 20

var allowedPOExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".txt":  true,
	".xlsx": true,
	".xls":  true,
}

// PORequest is one purchase-order descriptor in a creation batch.
type PORequest struct {
	PONumber    string  `json:"po_number"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	FileIndex   *int    `json:"file_index"`
}

// POFileBinding reports, per descriptor, what happened to its document slot.
type POFileBinding struct {
	FileIndex         int    `json:"file_index"`
	OriginalFilename  string `json:"original_filename"`
	FileSizeBytes     int64  `json:"file_size_bytes"`
	SuccessfullyBound bool   `json:"successfully_bound"`
}

// effectiveFileIndex resolves the document slot for the descriptor at
// position: an explicit file_index wins, otherwise the position itself.
func effectiveFileIndex(po PORequest, position int) int {
	if po.FileIndex != nil {
		return *po.FileIndex
	}
	return position
}

// validatePOBatch checks the whole batch before any file write or database
// row. Error messages identify descriptors by their 1-based index.
func validatePOBatch(pos []PORequest, maxDocs int) error {
	seen := make(map[string]bool, len(pos))
	duplicates := make(map[string]bool)
	for _, po := range pos {
		if po.PONumber == "" {
			continue
		}
		if seen[po.PONumber] {
			duplicates[po.PONumber] = true
		}
		seen[po.PONumber] = true
	}

	for idx, po := range pos {
		if po.Amount <= 0 {
			return fmt.Errorf("PO %d: Amount must be greater than 0", idx+1)
		}
		if po.FileIndex != nil && (*po.FileIndex < 0 || *po.FileIndex >= maxDocs) {
			return fmt.Errorf("PO %d: Invalid file_index %d. Must be between 0-%d", idx+1, *po.FileIndex, maxDocs-1)
		}
		// A duplicated number rejects the batch at its first occurrence too.
		if po.PONumber != "" && duplicates[po.PONumber] {
			return fmt.Errorf("PO number '%s' is duplicated. Each PO must have a unique number", po.PONumber)
		}
	}
	return nil
}

// validatePODocument enforces the extension allow-list and size bounds.
// position is the descriptor's 1-based index, used only in messages.
func validatePODocument(fh *multipart.FileHeader, position int) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedPOExtensions[ext] {
		return fmt.Errorf("PO %d: File type %s not allowed", position, ext)
	}
	if fh.Size == 0 {
		return fmt.Errorf("PO %d: Uploaded file is empty", position)
	}
	if fh.Size > maxPODocumentBytes {
		return fmt.Errorf("PO %d: File size exceeds 10MB limit", position)
	}
	return nil
}

// poDocumentName builds a collision-free stored filename for a PO document.
// The PO number is sanitized so it cannot escape the upload directory.
func poDocumentName(projectUUID uuid.UUID, poNumber string, position int, originalName string) string {
	safeNumber := poNumber
	if safeNumber == "" {
		safeNumber = fmt.Sprintf("PO%d", position)
	}
	safeNumber = strings.NewReplacer("/", "_", "\\", "_").Replace(safeNumber)
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("PO_%s_%s_%s%s", projectUUID, safeNumber, uuid.New(), ext)
}
