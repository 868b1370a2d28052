package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, 10 MB.
const MaxImageSize = 10 * 1024 * 1024

// Storage abstracts file persistence for uploaded photos
type Storage interface {
	Upload(file *multipart.FileHeader, dir string) (string, error)
	UploadBytes(data []byte, dir, filename string) (string, error)
	Delete(path string) error
	Exists(path string) bool
	URL(path string) string
}

// LocalStorage stores files on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a filesystem-backed storage rooted at basePath
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// ValidateImage checks that the upload is an image within the size limit
func ValidateImage(file *multipart.FileHeader) error {
	if file.Size > MaxImageSize {
		return fmt.Errorf("file exceeds %d bytes", MaxImageSize)
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unsupported content type %q", contentType)
	}
	return nil
}

// Upload saves a multipart file under dir with a generated name and returns
// the storage-relative path.
func (s *LocalStorage) Upload(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := uuid.New().String() + ext
	relPath := filepath.Join(dir, name)

	fullDir := filepath.Join(s.basePath, dir)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.basePath, relPath))
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return relPath, nil
}

// UploadBytes saves raw bytes under dir/filename and returns the
// storage-relative path. Used for generated thumbnails.
func (s *LocalStorage) UploadBytes(data []byte, dir, filename string) (string, error) {
	relPath := filepath.Join(dir, filename)

	fullDir := filepath.Join(s.basePath, dir)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.basePath, relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return relPath, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStorage) Delete(path string) error {
	err := os.Remove(filepath.Join(s.basePath, path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Exists reports whether a stored file is present
func (s *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, path))
	return err == nil
}

// URL returns the public URL for a storage-relative path
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + "/" + filepath.ToSlash(path)
}

// FullPath returns the absolute filesystem path for a storage-relative path
func (s *LocalStorage) FullPath(path string) string {
	return filepath.Join(s.basePath, path)
}
