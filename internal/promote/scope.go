package promote

import (
	"strings"

	"github.com/temirov/promote/internal/workspace"
)

// scopedTree rejects writes, deletions, and renames outside the allowed roots.
type scopedTree struct {
	workspace.Tree
	allowedRoots []string
}

func newScopedTree(tree workspace.Tree, allowedRoots ...string) *scopedTree {
	return &scopedTree{Tree: tree, allowedRoots: allowedRoots}
}

func (tree *scopedTree) Write(filePath string, content []byte) error {
	if scopeError := tree.checkScope(filePath); scopeError != nil {
		return scopeError
	}
	return tree.Tree.Write(filePath, content)
}

func (tree *scopedTree) Delete(filePath string) error {
	if scopeError := tree.checkScope(filePath); scopeError != nil {
		return scopeError
	}
	return tree.Tree.Delete(filePath)
}

// Rename requires both ends of the move to sit inside the allowed roots.
func (tree *scopedTree) Rename(sourcePath string, destinationPath string) error {
	for _, filePath := range []string{sourcePath, destinationPath} {
		if scopeError := tree.checkScope(filePath); scopeError != nil {
			return scopeError
		}
	}
	return tree.Tree.Rename(sourcePath, destinationPath)
}

func (tree *scopedTree) checkScope(filePath string) error {
	for _, allowedRoot := range tree.allowedRoots {
		if strings.HasPrefix(filePath, allowedRoot+"/") {
			return nil
		}
	}
	return &ScopeViolationError{Path: filePath, AllowedRoots: append([]string{}, tree.allowedRoots...)}
}
