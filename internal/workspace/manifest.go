package workspace

import (
	"github.com/tidwall/gjson"
)

const (
	// ManifestFileName is the package manifest stored at each project root.
	ManifestFileName = "package.json"

	manifestNameKeyConstant         = "name"
	manifestVersionKeyConstant      = "version"
	manifestPrivateKeyConstant      = "private"
	manifestDependenciesKeyConstant = "dependencies"
)

// DependencySections lists the manifest objects that declare workspace dependencies.
var DependencySections = []string{
	manifestDependenciesKeyConstant,
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// DependencyEntry is one key of a manifest dependency section.
type DependencyEntry struct {
	Section string
	Name    string
	Range   string
}

// Manifest is the package.json view of a project.
type Manifest struct {
	document *Document
}

// ReadManifest loads the manifest stored at manifestPath.
func ReadManifest(tree Tree, manifestPath string) (*Manifest, error) {
	document, readError := ReadDocument(tree, manifestPath)
	if readError != nil {
		return nil, readError
	}
	return &Manifest{document: document}, nil
}

// Path returns the manifest location.
func (manifest *Manifest) Path() string {
	return manifest.document.Path()
}

// Name returns the package identity.
func (manifest *Manifest) Name() string {
	return manifest.document.Get(manifestNameKeyConstant).String()
}

// Version returns the declared package version.
func (manifest *Manifest) Version() string {
	return manifest.document.Get(manifestVersionKeyConstant).String()
}

// Private reports whether the package is excluded from publishing.
func (manifest *Manifest) Private() bool {
	return manifest.document.Get(manifestPrivateKeyConstant).Bool()
}

// Dependencies returns the entries of every dependency section, section by
// section in DependencySections order and in declaration order within one.
func (manifest *Manifest) Dependencies() []DependencyEntry {
	entries := []DependencyEntry{}
	for _, section := range DependencySections {
		manifest.document.Get(section).ForEach(func(key gjson.Result, value gjson.Result) bool {
			entries = append(entries, DependencyEntry{Section: section, Name: key.String(), Range: value.String()})
			return true
		})
	}
	return entries
}

// DeclaredDependency returns every section entry keyed by dependencyName.
func (manifest *Manifest) DeclaredDependency(dependencyName string) []DependencyEntry {
	declared := []DependencyEntry{}
	for _, entry := range manifest.Dependencies() {
		if entry.Name == dependencyName {
			declared = append(declared, entry)
		}
	}
	return declared
}

// Dependency returns the range declared for dependencyName.
func (manifest *Manifest) Dependency(dependencyName string) (string, bool) {
	result := manifest.document.Get(manifestDependenciesKeyConstant, dependencyName)
	return result.String(), result.Exists()
}

func (manifest *Manifest) SetName(name string) error {
	return manifest.document.Set(name, manifestNameKeyConstant)
}

func (manifest *Manifest) SetVersion(version string) error {
	return manifest.document.Set(version, manifestVersionKeyConstant)
}

func (manifest *Manifest) RemovePrivate() error {
	return manifest.document.Delete(manifestPrivateKeyConstant)
}

// SetDependency adds or overwrites a runtime dependency range.
func (manifest *Manifest) SetDependency(dependencyName string, versionRange string) error {
	return manifest.SetSectionDependency(manifestDependenciesKeyConstant, dependencyName, versionRange)
}

// SetSectionDependency adds or overwrites a range in the named dependency section.
func (manifest *Manifest) SetSectionDependency(section string, dependencyName string, versionRange string) error {
	return manifest.document.Set(versionRange, section, dependencyName)
}

// RemoveDependency deletes dependencyName from every dependency section.
func (manifest *Manifest) RemoveDependency(dependencyName string) error {
	for _, section := range DependencySections {
		if !manifest.document.Get(section, dependencyName).Exists() {
			continue
		}
		if deleteError := manifest.document.Delete(section, dependencyName); deleteError != nil {
			return deleteError
		}
	}
	return nil
}

// Save writes the manifest back to its current path.
func (manifest *Manifest) Save(tree Tree) error {
	return manifest.document.Save(tree)
}
