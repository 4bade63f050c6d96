package models

import "time"

// DocumentType classifies an uploaded application document
type DocumentType string

const (
	DocumentSOP         DocumentType = "sop"
	DocumentLOR         DocumentType = "lor"
	DocumentCV          DocumentType = "cv"
	DocumentTranscript  DocumentType = "transcript"
	DocumentCertificate DocumentType = "certificate"
	DocumentOther       DocumentType = "other"
)

// Valid reports whether the document type is one of the known values.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentSOP, DocumentLOR, DocumentCV, DocumentTranscript, DocumentCertificate, DocumentOther:
		return true
	}
	return false
}

// Document is a file a student uploaded for their applications
type Document struct {
	ID           int64        `json:"id" db:"id" example:"1"`
	StudentID    int64        `json:"studentId" db:"student_id" example:"5"`
	DocumentType DocumentType `json:"documentType" db:"document_type" example:"transcript"`
	FileName     string       `json:"fileName" db:"file_name" example:"transcript.pdf"`
	StorageKey   string       `json:"-" db:"storage_key"`
	MimeType     string       `json:"mimeType" db:"mime_type" example:"application/pdf"`
	FileSize     int64        `json:"fileSize" db:"file_size" example:"204800"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}
