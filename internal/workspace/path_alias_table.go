package workspace

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	compilerOptionsKeyConstant = "compilerOptions"
	pathsKeyConstant           = "paths"
)

// MissingPathsError reports a path-alias table without a compilerOptions.paths object.
type MissingPathsError struct {
	Path string
}

// Error describes the missing paths object.
func (missingError MissingPathsError) Error() string {
	return fmt.Sprintf("%s does not declare compilerOptions.paths", missingError.Path)
}

// PathAliasTable is a TypeScript configuration holding identity to entry-point aliases.
type PathAliasTable struct {
	document *Document
}

// ReadPathAliasTable loads and validates the alias table stored at tablePath.
func ReadPathAliasTable(tree Tree, tablePath string) (*PathAliasTable, error) {
	document, readError := ReadDocument(tree, tablePath)
	if readError != nil {
		return nil, readError
	}
	if !document.Get(compilerOptionsKeyConstant, pathsKeyConstant).IsObject() {
		return nil, MissingPathsError{Path: tablePath}
	}
	return &PathAliasTable{document: document}, nil
}

func (table *PathAliasTable) Path() string {
	return table.document.Path()
}

// Entries returns the entry points aliased to identity.
func (table *PathAliasTable) Entries(identity string) ([]string, bool) {
	result := table.document.Get(compilerOptionsKeyConstant, pathsKeyConstant, identity)
	if !result.Exists() {
		return nil, false
	}
	entries := []string{}
	result.ForEach(func(_ gjson.Result, value gjson.Result) bool {
		entries = append(entries, value.String())
		return true
	})
	return entries, true
}

// SetEntries inserts or overwrites the alias for identity.
func (table *PathAliasTable) SetEntries(identity string, entries []string) error {
	return table.document.Set(entries, compilerOptionsKeyConstant, pathsKeyConstant, identity)
}

// Remove deletes the alias for identity.
func (table *PathAliasTable) Remove(identity string) error {
	return table.document.Delete(compilerOptionsKeyConstant, pathsKeyConstant, identity)
}

func (table *PathAliasTable) Save(tree Tree) error {
	return table.document.Save(tree)
}
