package workspace

import (
	"path"
	"strings"
)

const (
	indexFileNameConstant      = "index.ts"
	scopeSeparatorConstant     = "/"
	defaultSourceDirectoryName = "src"
)

// ProjectType distinguishes libraries from applications in the build graph.
type ProjectType string

const (
	ProjectTypeLibrary     ProjectType = "library"
	ProjectTypeApplication ProjectType = "application"
)

// Project describes one workspace package.
type Project struct {
	Name            string
	Root            string
	SourceRoot      string
	Type            ProjectType
	Tags            []string
	ProjectFilePath string
	ManifestPath    string
}

// HasTag reports whether the project carries tag.
func (project Project) HasTag(tag string) bool {
	for _, projectTag := range project.Tags {
		if projectTag == tag {
			return true
		}
	}
	return false
}

// IndexPath returns the public entry point of the project.
func (project Project) IndexPath() string {
	return path.Join(project.SourceRoot, indexFileNameConstant)
}

// UnscopedName returns the identity without its npm scope.
func (project Project) UnscopedName() string {
	return UnscopedName(project.Name)
}

// UnscopedName strips an "@scope/" prefix from identity.
func UnscopedName(identity string) string {
	if !strings.HasPrefix(identity, "@") {
		return identity
	}
	_, unscoped, found := strings.Cut(identity, scopeSeparatorConstant)
	if !found {
		return identity
	}
	return unscoped
}
