package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yigit/scholarpath/internal/pkg/logger"
)

// DefaultAllowedTypes are the document formats accepted for upload
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string // The root directory where files will be stored
	maxSize      int64
	allowedTypes []string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Uploads larger than maxSize bytes are rejected.
func NewLocalStorage(basePath string, maxSize int64, allowedTypes ...string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o750); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory %s: %w", basePath, err)
	}
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	logger.Info().Str("path", abs).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath:     abs,
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
	}, nil
}

// SaveFileWithPath checks size and sniffed content type, then writes the upload
// under subPath with a random name.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (*FileInfo, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if ls.maxSize > 0 && fileHeader.Size > ls.maxSize {
		return nil, ErrTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// The client-declared Content-Type is ignored
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	if !ls.allowed(mtype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	dir, err := ls.resolve(subPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + mtype.Extension()
	dstPath := filepath.Join(dir, uniqueFilename)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Size is re-checked while copying since the header value comes from the client
	limit := ls.maxSize
	if limit <= 0 {
		limit = fileHeader.Size
	}
	written, err := io.Copy(dst, io.LimitReader(file, limit+1))
	if err == nil && written > limit {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	key := filepath.ToSlash(filepath.Join(subPath, uniqueFilename))
	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File saved successfully")
	return &FileInfo{
		Key:      key,
		Filename: filepath.Base(fileHeader.Filename),
		FileSize: written,
		MimeType: mtype.String(),
	}, nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(key string) error {
	if key == "" {
		return nil
	}
	physicalPath, err := ls.GetFullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the filesystem path of a stored key
func (ls *LocalStorage) GetFullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	return ls.resolve(key)
}

// resolve joins rel to the root and rejects anything that escapes it
func (ls *LocalStorage) resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", ErrInvalidKey
	}
	full := filepath.Join(ls.basePath, rel)
	if full != ls.basePath && !strings.HasPrefix(full, ls.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}

func (ls *LocalStorage) allowed(mtype *mimetype.MIME) bool {
	for _, t := range ls.allowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

// BasePath returns the absolute storage root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
