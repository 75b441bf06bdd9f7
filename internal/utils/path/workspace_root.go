package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	homeShortcutConstant                 = "~"
	workspaceRootRequiredMessageConstant = "workspace root must be provided"
	workspaceRootResolveTemplateConstant = "unable to resolve workspace root %s: %w"
	workspaceRootNotDirectoryTemplate    = "workspace root %s is not a directory"
)

// ErrWorkspaceRootRequired indicates that no workspace root was configured.
var ErrWorkspaceRootRequired = errors.New(workspaceRootRequiredMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// WorkspaceRootResolver turns user-supplied workspace roots into absolute directories.
type WorkspaceRootResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	statFunction          func(string) (os.FileInfo, error)
}

// NewWorkspaceRootResolver constructs a resolver backed by the operating system.
func NewWorkspaceRootResolver() *WorkspaceRootResolver {
	return NewWorkspaceRootResolverWithHome(os.UserHomeDir)
}

// NewWorkspaceRootResolverWithHome constructs a resolver that expands "~" using the given provider.
func NewWorkspaceRootResolverWithHome(provider HomeDirectoryProvider) *WorkspaceRootResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &WorkspaceRootResolver{homeDirectoryProvider: provider, statFunction: os.Stat}
}

// Resolve expands, absolutizes, and verifies the workspace root directory.
func (resolver *WorkspaceRootResolver) Resolve(candidateRoot string) (string, error) {
	trimmedRoot := strings.TrimSpace(candidateRoot)
	if len(trimmedRoot) == 0 {
		return "", ErrWorkspaceRootRequired
	}

	absoluteRoot, absoluteError := filepath.Abs(resolver.expandHome(trimmedRoot))
	if absoluteError != nil {
		return "", fmt.Errorf(workspaceRootResolveTemplateConstant, trimmedRoot, absoluteError)
	}

	rootInfo, statError := resolver.statFunction(absoluteRoot)
	if statError != nil {
		return "", fmt.Errorf(workspaceRootResolveTemplateConstant, trimmedRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(workspaceRootNotDirectoryTemplate, absoluteRoot)
	}
	return absoluteRoot, nil
}

// expandHome rewrites "~" and "~/..." against the home directory; "~user" forms are left alone.
func (resolver *WorkspaceRootResolver) expandHome(candidateRoot string) string {
	remainder, hasShortcut := strings.CutPrefix(candidateRoot, homeShortcutConstant)
	if !hasShortcut {
		return candidateRoot
	}
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidateRoot
	}

	homeDirectory, homeError := resolver.homeDirectoryProvider()
	if homeError != nil || len(homeDirectory) == 0 {
		return candidateRoot
	}
	return filepath.Join(homeDirectory, remainder)
}
