package assets

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore writes uploaded product images into a local directory. The paths
// it returns are what gets stored in Product.Image and what the static file
// route serves from.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir, creating the directory if
// it does not exist yet.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a random name that keeps the original
// extension, so concurrent uploads can never collide, and returns the stored
// path.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	name := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write asset file %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes the asset at path. It fails when the path does not denote an
// existing file, which includes Image values that are remote URLs; the caller
// decides whether that failure is fatal.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove asset %s: %w", path, err)
	}
	return nil
}
