package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Document processing statuses.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusIndexed    = "indexed"
	StatusFailed     = "failed"
)

// Document represents a managed document with its extracted text content.
type Document struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id,omitempty"`
	Name             string    `json:"name"`
	Status           string    `json:"status,omitempty"` // signing workflow status: "", draft, pending, signed
	CreatedBy        string    `json:"created_by,omitempty"`
	SourceURL        string    `json:"source_url,omitempty"`
	ContentType      string    `json:"content_type,omitempty"`
	Content          string    `json:"content"` // extracted text, markdown
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`

	IsDeleted bool       `json:"is_deleted,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy string     `json:"deleted_by,omitempty"`
}

/// CanBeAnalyzed reports whether the document is eligible for analysis:
// it must be active, fully processed, and carry extractable text.
func (d *Document) CanBeAnalyzed() bool {
	return d.IsActive() &&
		d.ProcessingStatus == StatusIndexed &&
		strings.TrimSpace(d.Content) != ""
}

// IsActive reports whether the document has not been soft deleted.
func (d *Document) IsActive() bool {
	return !d.IsDeleted
}

// SoftDelete marks the document as deleted with audit information.
func (d *Document) SoftDelete(deletedBy string) {
	now := time.Now().UTC()
	d.IsDeleted = true
	d.DeletedAt = &now
	d.DeletedBy = deletedBy
}

// GenerateDocumentID creates a deterministic ID from the document source.
// The ID is a SHA-256 hash (first 16 chars) of the source URL or path.
func GenerateDocumentID(source string) string {
	hash := sha256.Sum256([]byte(source))
	return hex.EncodeToString(hash[:])[:16]
}
