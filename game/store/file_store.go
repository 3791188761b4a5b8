package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const recordExt = ".json"

// FileStore implements RecordStore using file system storage
type FileStore struct {
	dir string
}

// NewFileStore creates a new file-based record store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	// Create levels directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create levels directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the record files
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Load reads the record file for name
func (fs *FileStore) Load(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	return data, nil
}

// Save writes the record file for name through a temp file and rename
func (fs *FileStore) Save(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp record file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}

// Delete removes the record file for name
func (fs *FileStore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !fs.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := os.Remove(fs.path(name)); err != nil {
		return fmt.Errorf("failed to remove record file: %w", err)
	}
	return nil
}

// List returns the names of all record files, sorted
func (fs *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, recordExt))
	}

	sort.Strings(names)
	return names, nil
}

// Exists checks if a record file exists for name
func (fs *FileStore) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	_, err := os.Stat(fs.path(name))
	return err == nil
}

// Close is a no-op for file storage
func (fs *FileStore) Close() error {
	return nil
}

// NameFromPath returns the record name for a file path inside the store, or
// false when the path is not a record file
func (fs *FileStore) NameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, recordExt) {
		return "", false
	}
	return strings.TrimSuffix(base, recordExt), true
}

// path returns the full file path for a record name
func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.dir, name+recordExt)
}
