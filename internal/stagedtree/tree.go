package stagedtree

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

const (
	pathSeparatorConstant             = "/"
	currentDirectoryConstant          = "."
	parentDirectoryConstant           = ".."
	invalidPathTemplateConstant       = "invalid workspace path %q"
	fileNotFoundTemplateConstant      = "file %s does not exist"
	commitWriteErrorTemplateConstant  = "unable to commit %s: %w"
	commitDeleteErrorTemplateConstant = "unable to commit deletion of %s: %w"
	backendMissingMessageConstant     = "staged tree backend not configured"
)

// ErrFileNotFound indicates that a path holds no file in the staged view.
var ErrFileNotFound = errors.New("file not found")

// ChangeType classifies a staged modification relative to the committed state.
type ChangeType string

// Supported change types.
const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// FileChange describes one staged modification.
type FileChange struct {
	Path   string
	Type   ChangeType
	Before []byte
	After  []byte
}

type stagedEntry struct {
	content []byte
	deleted bool
}

// Tree stages file mutations over a Backend until Commit is invoked.
type Tree struct {
	backend Backend
	mutex   sync.RWMutex
	staged  map[string]stagedEntry
}

// New constructs a Tree over the provided backend.
func New(backend Backend) (*Tree, error) {
	if backend == nil {
		return nil, errors.New(backendMissingMessageConstant)
	}
	return &Tree{backend: backend, staged: make(map[string]stagedEntry)}, nil
}

// NewMemoryTree constructs a Tree over a MemoryBackend seeded with files.
func NewMemoryTree(files map[string]string) (*Tree, *MemoryBackend) {
	backend := NewMemoryBackend(files)
	return &Tree{backend: backend, staged: make(map[string]stagedEntry)}, backend
}

// RootDirectory reports the on-disk directory of an OS-backed tree, or an empty string.
func (tree *Tree) RootDirectory() string {
	rootedBackend, rooted := tree.backend.(interface{ RootDirectory() string })
	if !rooted {
		return ""
	}
	return rootedBackend.RootDirectory()
}

// Read returns the staged view of a file.
func (tree *Tree) Read(filePath string) ([]byte, error) {
	tree.mutex.RLock()
	defer tree.mutex.RUnlock()
	return tree.readLocked(normalizePath(filePath))
}

// ReadText returns the staged view of a file as a string.
func (tree *Tree) ReadText(filePath string) (string, error) {
	content, readError := tree.Read(filePath)
	if readError != nil {
		return "", readError
	}
	return string(content), nil
}

// Exists reports whether a file is present in the staged view.
func (tree *Tree) Exists(filePath string) bool {
	tree.mutex.RLock()
	defer tree.mutex.RUnlock()
	_, readError := tree.readLocked(normalizePath(filePath))
	return readError == nil
}

// Write stages new content for a file, creating or overwriting it.
func (tree *Tree) Write(filePath string, content []byte) error {
	normalizedPath, validationError := validatePath(filePath)
	if validationError != nil {
		return validationError
	}

	tree.mutex.Lock()
	defer tree.mutex.Unlock()
	tree.staged[normalizedPath] = stagedEntry{content: append([]byte(nil), content...)}
	return nil
}

// WriteText stages string content for a file.
func (tree *Tree) WriteText(filePath string, content string) error {
	return tree.Write(filePath, []byte(content))
}

// Delete stages the removal of a file. Deleting a missing file is a no-op.
func (tree *Tree) Delete(filePath string) error {
	normalizedPath, validationError := validatePath(filePath)
	if validationError != nil {
		return validationError
	}

	tree.mutex.Lock()
	defer tree.mutex.Unlock()
	tree.staged[normalizedPath] = stagedEntry{deleted: true}
	return nil
}

// Rename stages moving a file to a new path.
func (tree *Tree) Rename(sourcePath string, destinationPath string) error {
	content, readError := tree.Read(sourcePath)
	if readError != nil {
		return readError
	}
	if writeError := tree.Write(destinationPath, content); writeError != nil {
		return writeError
	}
	return tree.Delete(sourcePath)
}

// Children lists the immediate children of a directory that still hold files.
func (tree *Tree) Children(directoryPath string) ([]string, error) {
	tree.mutex.RLock()
	defer tree.mutex.RUnlock()

	normalizedDirectory := normalizePath(directoryPath)
	liveChildren := make(map[string]struct{})

	backendEntries, listError := tree.backend.ListDirectory(normalizedDirectory)
	if listError != nil {
		return nil, listError
	}
	for _, backendEntry := range backendEntries {
		childPath := joinPath(normalizedDirectory, backendEntry.Name)
		if backendEntry.IsDirectory {
			if !tree.hasStagedDeletionLocked(childPath) {
				liveChildren[backendEntry.Name] = struct{}{}
				continue
			}
			childFiles, filesError := tree.filesLocked(childPath)
			if filesError != nil {
				return nil, filesError
			}
			if len(childFiles) > 0 {
				liveChildren[backendEntry.Name] = struct{}{}
			}
			continue
		}
		if _, readError := tree.readLocked(childPath); readError == nil {
			liveChildren[backendEntry.Name] = struct{}{}
		}
	}

	for stagedPath, entry := range tree.staged {
		if entry.deleted {
			continue
		}
		childName, _, isChild := immediateChild(stagedPath, normalizedDirectory)
		if isChild {
			liveChildren[childName] = struct{}{}
		}
	}

	return sortedKeys(liveChildren), nil
}

// Files lists every file beneath a directory in the staged view.
func (tree *Tree) Files(directoryPath string) ([]string, error) {
	tree.mutex.RLock()
	defer tree.mutex.RUnlock()
	return tree.filesLocked(normalizePath(directoryPath))
}

// Changes reports staged modifications that differ from the committed state, ordered by path.
func (tree *Tree) Changes() ([]FileChange, error) {
	tree.mutex.RLock()
	defer tree.mutex.RUnlock()

	stagedPaths := make([]string, 0, len(tree.staged))
	for stagedPath := range tree.staged {
		stagedPaths = append(stagedPaths, stagedPath)
	}
	sort.Strings(stagedPaths)

	changes := make([]FileChange, 0, len(stagedPaths))
	for _, stagedPath := range stagedPaths {
		entry := tree.staged[stagedPath]
		committedContent, committedError := tree.backend.ReadFile(stagedPath)
		committedExists := committedError == nil
		if committedError != nil && !errors.Is(committedError, fs.ErrNotExist) {
			return nil, committedError
		}

		switch {
		case entry.deleted && committedExists:
			changes = append(changes, FileChange{Path: stagedPath, Type: ChangeDelete, Before: committedContent})
		case entry.deleted:
			continue
		case !committedExists:
			changes = append(changes, FileChange{Path: stagedPath, Type: ChangeCreate, After: entry.content})
		case !bytes.Equal(committedContent, entry.content):
			changes = append(changes, FileChange{Path: stagedPath, Type: ChangeUpdate, Before: committedContent, After: entry.content})
		}
	}
	return changes, nil
}

// Commit applies every staged modification to the backend and clears the stage.
func (tree *Tree) Commit() error {
	changes, changesError := tree.Changes()
	if changesError != nil {
		return changesError
	}

	tree.mutex.Lock()
	defer tree.mutex.Unlock()

	for _, change := range changes {
		if change.Type == ChangeDelete {
			continue
		}
		if writeError := tree.backend.WriteFile(change.Path, change.After); writeError != nil {
			return fmt.Errorf(commitWriteErrorTemplateConstant, change.Path, writeError)
		}
	}
	for _, change := range changes {
		if change.Type != ChangeDelete {
			continue
		}
		if deleteError := tree.backend.RemoveFile(change.Path); deleteError != nil {
			return fmt.Errorf(commitDeleteErrorTemplateConstant, change.Path, deleteError)
		}
	}

	tree.staged = make(map[string]stagedEntry)
	return nil
}

func (tree *Tree) readLocked(normalizedPath string) ([]byte, error) {
	if entry, staged := tree.staged[normalizedPath]; staged {
		if entry.deleted {
			return nil, fmt.Errorf(fileNotFoundTemplateConstant+": %w", normalizedPath, ErrFileNotFound)
		}
		return append([]byte(nil), entry.content...), nil
	}

	content, readError := tree.backend.ReadFile(normalizedPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, fmt.Errorf(fileNotFoundTemplateConstant+": %w", normalizedPath, ErrFileNotFound)
		}
		return nil, readError
	}
	return content, nil
}

// hasStagedDeletionLocked avoids walking large untouched directories such as node_modules.
func (tree *Tree) hasStagedDeletionLocked(normalizedDirectory string) bool {
	for stagedPath, entry := range tree.staged {
		if entry.deleted && isWithin(stagedPath, normalizedDirectory) {
			return true
		}
	}
	return false
}

func (tree *Tree) filesLocked(normalizedDirectory string) ([]string, error) {
	collected := make(map[string]struct{})
	if walkError := tree.walkBackendLocked(normalizedDirectory, collected); walkError != nil {
		return nil, walkError
	}
	for stagedPath, entry := range tree.staged {
		if entry.deleted {
			delete(collected, stagedPath)
			continue
		}
		if isWithin(stagedPath, normalizedDirectory) {
			collected[stagedPath] = struct{}{}
		}
	}
	return sortedKeys(collected), nil
}

func (tree *Tree) walkBackendLocked(normalizedDirectory string, collected map[string]struct{}) error {
	backendEntries, listError := tree.backend.ListDirectory(normalizedDirectory)
	if listError != nil {
		return listError
	}
	for _, backendEntry := range backendEntries {
		childPath := joinPath(normalizedDirectory, backendEntry.Name)
		if backendEntry.IsDirectory {
			if walkError := tree.walkBackendLocked(childPath, collected); walkError != nil {
				return walkError
			}
			continue
		}
		collected[childPath] = struct{}{}
	}
	return nil
}

func validatePath(filePath string) (string, error) {
	normalizedPath := normalizePath(filePath)
	if len(normalizedPath) == 0 || normalizedPath == parentDirectoryConstant || strings.HasPrefix(normalizedPath, parentDirectoryConstant+pathSeparatorConstant) {
		return "", fmt.Errorf(invalidPathTemplateConstant, filePath)
	}
	return normalizedPath, nil
}

func normalizePath(filePath string) string {
	trimmedPath := strings.TrimSpace(strings.ReplaceAll(filePath, "\\", pathSeparatorConstant))
	if len(trimmedPath) == 0 {
		return ""
	}
	cleanedPath := strings.TrimPrefix(path.Clean(trimmedPath), pathSeparatorConstant)
	if cleanedPath == currentDirectoryConstant {
		return ""
	}
	return cleanedPath
}

func joinPath(directoryPath string, name string) string {
	if len(directoryPath) == 0 {
		return name
	}
	return directoryPath + pathSeparatorConstant + name
}

func isWithin(filePath string, directoryPath string) bool {
	if len(directoryPath) == 0 {
		return true
	}
	return strings.HasPrefix(filePath, directoryPath+pathSeparatorConstant)
}

func immediateChild(filePath string, directoryPath string) (string, bool, bool) {
	if !isWithin(filePath, directoryPath) {
		return "", false, false
	}
	remainder := filePath
	if len(directoryPath) > 0 {
		remainder = strings.TrimPrefix(filePath, directoryPath+pathSeparatorConstant)
	}
	childName, _, hasNested := strings.Cut(remainder, pathSeparatorConstant)
	if len(childName) == 0 {
		return "", false, false
	}
	return childName, hasNested, true
}

func sortedKeys(values map[string]struct{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
