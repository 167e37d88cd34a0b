package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// LocalStorage saves uploaded images to the local filesystem and serves them
// under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
	maxBytes int64
}

// NewLocalStorage creates a new LocalStorage instance.
// maxBytes <= 0 disables the size check.
func NewLocalStorage(basePath, baseURL string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// BasePath is the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveFileWithPath saves an image to a subdirectory under a random name
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file", ErrUnsupportedFileType)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fileHeader.Size)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = filepath.Clean("/" + subPath)[1:]
	dir := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := name
	if subPath != "" {
		rel = filepath.ToSlash(filepath.Join(subPath, name))
	}
	url := ls.baseURL + "/" + rel

	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved")
	return url, nil
}

// DeleteFile removes a stored file given the URL SaveFileWithPath returned.
// Missing files and URLs outside baseURL are ignored.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" || !strings.HasPrefix(fileURL, ls.baseURL+"/") {
		return nil
	}

	rel := strings.TrimPrefix(fileURL, ls.baseURL+"/")
	rel = filepath.Clean("/" + rel)[1:]
	if rel == "" {
		return nil
	}

	path := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
