package filestorage

import (
	"errors"
	"mime/multipart"
)

var (
	// ErrUnsupportedType is returned for content outside the allowed MIME types
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned for uploads above the size limit
	ErrTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for zero-byte uploads
	ErrEmptyFile = errors.New("file is empty")
	// ErrInvalidKey is returned for keys that escape the storage root
	ErrInvalidKey = errors.New("invalid storage key")
)

// FileInfo describes a stored file
type FileInfo struct {
	Key      string // Path relative to the storage root
	Filename string // Original filename
	FileSize int64  // Size in bytes
	MimeType string // Detected MIME type of the content
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath validates the upload and stores it under subPath
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (*FileInfo, error)

	// DeleteFile removes a stored file; a missing file is not an error
	DeleteFile(key string) error

	// GetFullPath resolves a key to its filesystem path
	GetFullPath(key string) (string, error)
}
