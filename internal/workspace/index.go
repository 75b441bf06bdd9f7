package workspace

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

const (
	duplicateProjectTemplateConstant = "project %s is declared by both %s and %s"
	projectScanErrorTemplateConstant = "unable to scan %s: %w"
	applicationsDirectoryPrefix      = "apps/"
)

var ignoredDirectoryNames = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".nx":          {},
	"dist":         {},
	"lib":          {},
	"lib-commonjs": {},
	"temp":         {},
}

// ProjectIndex maps project identities to their workspace locations.
type ProjectIndex struct {
	projects map[string]Project
}

// NewProjectIndex builds an index, rejecting duplicate identities.
func NewProjectIndex(projects []Project) (*ProjectIndex, error) {
	indexedProjects := make(map[string]Project, len(projects))
	for _, project := range projects {
		if existing, duplicate := indexedProjects[project.Name]; duplicate {
			return nil, fmt.Errorf(duplicateProjectTemplateConstant, project.Name, existing.ProjectFilePath, project.ProjectFilePath)
		}
		indexedProjects[project.Name] = project
	}
	return &ProjectIndex{projects: indexedProjects}, nil
}

// LoadProjectIndex scans the tree and indexes every project found.
func LoadProjectIndex(tree Tree) (*ProjectIndex, error) {
	projects, scanError := ScanProjects(tree)
	if scanError != nil {
		return nil, scanError
	}
	return NewProjectIndex(projects)
}

// Lookup returns the project registered under identity.
func (index *ProjectIndex) Lookup(identity string) (Project, bool) {
	if index == nil {
		return Project{}, false
	}
	project, found := index.projects[identity]
	return project, found
}

// Projects returns every indexed project ordered by identity.
func (index *ProjectIndex) Projects() []Project {
	if index == nil {
		return nil
	}
	projects := make([]Project, 0, len(index.projects))
	for _, project := range index.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(left int, right int) bool {
		return projects[left].Name < projects[right].Name
	})
	return projects
}

// ScanProjects walks the tree and returns every directory holding a project record.
func ScanProjects(tree Tree) ([]Project, error) {
	projects := []Project{}
	if scanError := scanDirectory(tree, "", &projects); scanError != nil {
		return nil, scanError
	}
	return projects, nil
}

func scanDirectory(tree Tree, directoryPath string, projects *[]Project) error {
	recordPath := path.Join(directoryPath, ProjectRecordFileName)
	if tree.Exists(recordPath) {
		project, projectError := LoadProject(tree, directoryPath)
		if projectError != nil {
			return projectError
		}
		*projects = append(*projects, project)
	}

	children, childrenError := tree.Children(directoryPath)
	if childrenError != nil {
		return fmt.Errorf(projectScanErrorTemplateConstant, directoryPath, childrenError)
	}
	for _, childName := range children {
		if _, ignored := ignoredDirectoryNames[childName]; ignored {
			continue
		}
		childPath := path.Join(directoryPath, childName)
		if tree.Exists(childPath) {
			continue
		}
		if scanError := scanDirectory(tree, childPath, projects); scanError != nil {
			return scanError
		}
	}
	return nil
}

// LoadProject reads the project record and manifest found at root.
//
// The identity comes from the record name, then the manifest name, then the
// directory name. Missing source roots default to "<root>/src".
func LoadProject(tree Tree, root string) (Project, error) {
	recordPath := path.Join(root, ProjectRecordFileName)
	record, recordError := ReadProjectRecord(tree, recordPath)
	if recordError != nil {
		return Project{}, recordError
	}

	project := Project{
		Name:            record.Name(),
		Root:            root,
		SourceRoot:      record.SourceRoot(),
		Type:            record.ProjectType(),
		Tags:            record.Tags(),
		ProjectFilePath: recordPath,
	}

	manifestPath := path.Join(root, ManifestFileName)
	if tree.Exists(manifestPath) {
		project.ManifestPath = manifestPath
		if len(project.Name) == 0 {
			manifest, manifestError := ReadManifest(tree, manifestPath)
			if manifestError != nil {
				return Project{}, manifestError
			}
			project.Name = manifest.Name()
		}
	}

	if len(project.Name) == 0 {
		project.Name = path.Base(root)
	}
	if len(project.SourceRoot) == 0 {
		project.SourceRoot = path.Join(root, defaultSourceDirectoryName)
	}
	if len(project.Type) == 0 {
		project.Type = ProjectTypeLibrary
		if strings.HasPrefix(root, applicationsDirectoryPrefix) {
			project.Type = ProjectTypeApplication
		}
	}
	return project, nil
}
