package workspace

import (
	"github.com/tidwall/gjson"
)

const (
	// ProjectRecordFileName is the build-graph project record stored at each project root.
	ProjectRecordFileName = "project.json"

	projectRecordNameKeyConstant       = "name"
	projectRecordRootKeyConstant       = "root"
	projectRecordSourceRootKeyConstant = "sourceRoot"
	projectRecordTypeKeyConstant       = "projectType"
	projectRecordTagsKeyConstant       = "tags"
)

// ProjectRecord is the project.json view of a project.
type ProjectRecord struct {
	document *Document
}

// ReadProjectRecord loads the project record stored at recordPath.
func ReadProjectRecord(tree Tree, recordPath string) (*ProjectRecord, error) {
	document, readError := ReadDocument(tree, recordPath)
	if readError != nil {
		return nil, readError
	}
	return &ProjectRecord{document: document}, nil
}

func (record *ProjectRecord) Path() string {
	return record.document.Path()
}

func (record *ProjectRecord) Name() string {
	return record.document.Get(projectRecordNameKeyConstant).String()
}

// Root returns the explicit root, which is optional in project.json.
func (record *ProjectRecord) Root() (string, bool) {
	result := record.document.Get(projectRecordRootKeyConstant)
	return result.String(), result.Exists()
}

func (record *ProjectRecord) SourceRoot() string {
	return record.document.Get(projectRecordSourceRootKeyConstant).String()
}

func (record *ProjectRecord) ProjectType() ProjectType {
	return ProjectType(record.document.Get(projectRecordTypeKeyConstant).String())
}

func (record *ProjectRecord) Tags() []string {
	tags := []string{}
	record.document.Get(projectRecordTagsKeyConstant).ForEach(func(_ gjson.Result, value gjson.Result) bool {
		tags = append(tags, value.String())
		return true
	})
	return tags
}

func (record *ProjectRecord) SetName(name string) error {
	return record.document.Set(name, projectRecordNameKeyConstant)
}
