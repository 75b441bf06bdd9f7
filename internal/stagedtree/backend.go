package stagedtree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	directoryPermissionConstant           = fs.FileMode(0o755)
	filePermissionConstant                = fs.FileMode(0o644)
	backendRootRequiredMessageConstant    = "backend root directory must be provided"
	backendReadErrorTemplateConstant      = "unable to read %s: %w"
	backendListErrorTemplateConstant      = "unable to list %s: %w"
	backendWriteErrorTemplateConstant     = "unable to write %s: %w"
	backendRemoveErrorTemplateConstant    = "unable to remove %s: %w"
	backendDirectoryErrorTemplateConstant = "unable to create directory for %s: %w"
)

// DirectoryEntry describes a single child of a backend directory.
type DirectoryEntry struct {
	Name        string
	IsDirectory bool
}

// Backend exposes the committed workspace state beneath a Tree.
//
// Paths are slash separated and relative to the workspace root. Listing a
// directory that does not exist yields no entries and no error.
type Backend interface {
	ReadFile(filePath string) ([]byte, error)
	ListDirectory(directoryPath string) ([]DirectoryEntry, error)
	WriteFile(filePath string, content []byte) error
	RemoveFile(filePath string) error
}

// FileSystem exposes the operating system primitives used by OSBackend.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	MkdirAll(path string, permissions fs.FileMode) error
	Remove(path string) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists directory entries.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// Remove deletes a file or an empty directory.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// OSBackend stores committed files beneath a root directory on disk.
type OSBackend struct {
	rootDirectory string
	fileSystem    FileSystem
}

// NewOSBackend constructs a backend rooted at the provided directory.
func NewOSBackend(rootDirectory string, fileSystem FileSystem) (*OSBackend, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return nil, errors.New(backendRootRequiredMessageConstant)
	}
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &OSBackend{rootDirectory: filepath.Clean(trimmedRoot), fileSystem: fileSystem}, nil
}

// RootDirectory reports the absolute or relative directory the backend is rooted at.
func (backend *OSBackend) RootDirectory() string {
	return backend.rootDirectory
}

// ReadFile reads a committed file.
func (backend *OSBackend) ReadFile(filePath string) ([]byte, error) {
	content, readError := backend.fileSystem.ReadFile(backend.resolve(filePath))
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf(backendReadErrorTemplateConstant, filePath, readError)
	}
	return content, nil
}

// ListDirectory lists the committed children of a directory.
func (backend *OSBackend) ListDirectory(directoryPath string) ([]DirectoryEntry, error) {
	directoryEntries, listError := backend.fileSystem.ReadDir(backend.resolve(directoryPath))
	if listError != nil {
		if errors.Is(listError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(backendListErrorTemplateConstant, directoryPath, listError)
	}

	entries := make([]DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entries = append(entries, DirectoryEntry{Name: directoryEntry.Name(), IsDirectory: directoryEntry.IsDir()})
	}
	return entries, nil
}

// WriteFile persists a file, creating parent directories as needed.
func (backend *OSBackend) WriteFile(filePath string, content []byte) error {
	resolvedPath := backend.resolve(filePath)
	if mkdirError := backend.fileSystem.MkdirAll(filepath.Dir(resolvedPath), directoryPermissionConstant); mkdirError != nil {
		return fmt.Errorf(backendDirectoryErrorTemplateConstant, filePath, mkdirError)
	}
	if writeError := backend.fileSystem.WriteFile(resolvedPath, content, filePermissionConstant); writeError != nil {
		return fmt.Errorf(backendWriteErrorTemplateConstant, filePath, writeError)
	}
	return nil
}

// RemoveFile deletes a file and prunes parent directories left empty.
func (backend *OSBackend) RemoveFile(filePath string) error {
	removeError := backend.fileSystem.Remove(backend.resolve(filePath))
	if removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return fmt.Errorf(backendRemoveErrorTemplateConstant, filePath, removeError)
	}

	for parentPath := path.Dir(filePath); parentPath != "." && parentPath != "/" && len(parentPath) > 0; parentPath = path.Dir(parentPath) {
		remainingEntries, listError := backend.fileSystem.ReadDir(backend.resolve(parentPath))
		if listError != nil || len(remainingEntries) > 0 {
			break
		}
		if pruneError := backend.fileSystem.Remove(backend.resolve(parentPath)); pruneError != nil {
			break
		}
	}
	return nil
}

func (backend *OSBackend) resolve(relativePath string) string {
	return filepath.Join(backend.rootDirectory, filepath.FromSlash(relativePath))
}

// MemoryBackend keeps committed files in memory.
type MemoryBackend struct {
	mutex sync.RWMutex
	files map[string][]byte
}

// NewMemoryBackend constructs a backend seeded with the provided files.
func NewMemoryBackend(files map[string]string) *MemoryBackend {
	backend := &MemoryBackend{files: make(map[string][]byte, len(files))}
	for filePath, content := range files {
		backend.files[normalizePath(filePath)] = []byte(content)
	}
	return backend
}

// ReadFile returns a copy of the stored content.
func (backend *MemoryBackend) ReadFile(filePath string) ([]byte, error) {
	backend.mutex.RLock()
	defer backend.mutex.RUnlock()

	content, exists := backend.files[normalizePath(filePath)]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), content...), nil
}

// ListDirectory derives directory children from the stored file paths.
func (backend *MemoryBackend) ListDirectory(directoryPath string) ([]DirectoryEntry, error) {
	backend.mutex.RLock()
	defer backend.mutex.RUnlock()

	normalizedDirectory := normalizePath(directoryPath)
	childKinds := make(map[string]bool)
	for filePath := range backend.files {
		childName, isDirectory, isChild := immediateChild(filePath, normalizedDirectory)
		if !isChild {
			continue
		}
		childKinds[childName] = childKinds[childName] || isDirectory
	}

	entries := make([]DirectoryEntry, 0, len(childKinds))
	for childName, isDirectory := range childKinds {
		entries = append(entries, DirectoryEntry{Name: childName, IsDirectory: isDirectory})
	}
	sort.Slice(entries, func(leftIndex int, rightIndex int) bool {
		return entries[leftIndex].Name < entries[rightIndex].Name
	})
	return entries, nil
}

// WriteFile stores a copy of the content.
func (backend *MemoryBackend) WriteFile(filePath string, content []byte) error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()

	backend.files[normalizePath(filePath)] = append([]byte(nil), content...)
	return nil
}

// RemoveFile deletes the stored content.
func (backend *MemoryBackend) RemoveFile(filePath string) error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()

	delete(backend.files, normalizePath(filePath))
	return nil
}

// Snapshot returns a copy of every stored file keyed by path.
func (backend *MemoryBackend) Snapshot() map[string]string {
	backend.mutex.RLock()
	defer backend.mutex.RUnlock()

	snapshot := make(map[string]string, len(backend.files))
	for filePath, content := range backend.files {
		snapshot[filePath] = string(content)
	}
	return snapshot
}
