package workspace

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	documentIndentConstant             = "  "
	documentPathSeparatorConstant      = "."
	documentReadErrorTemplateConstant  = "unable to read %s: %w"
	documentWriteErrorTemplateConstant = "unable to write %s: %w"
	documentEditErrorTemplateConstant  = "unable to edit %s at %s: %w"
)

var documentFormatOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   documentIndentConstant,
	SortKeys: false,
}

// MalformedDocumentError reports a JSON file that cannot be parsed.
type MalformedDocumentError struct {
	Path string
}

// Error describes the malformed document.
func (malformedError MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s is not a valid JSON document", malformedError.Path)
}

// Document is an order-preserving JSON file edited in place.
type Document struct {
	path    string
	content string
}

// ReadDocument loads and validates the JSON document stored at documentPath.
func ReadDocument(tree Tree, documentPath string) (*Document, error) {
	content, readError := tree.Read(documentPath)
	if readError != nil {
		return nil, fmt.Errorf(documentReadErrorTemplateConstant, documentPath, readError)
	}
	return ParseDocument(documentPath, content)
}

// ParseDocument validates raw JSON content and wraps it in a Document.
func ParseDocument(documentPath string, content []byte) (*Document, error) {
	if !gjson.ValidBytes(content) {
		return nil, MalformedDocumentError{Path: documentPath}
	}
	return &Document{path: documentPath, content: string(content)}, nil
}

// Path returns the workspace-relative path of the document.
func (document *Document) Path() string {
	return document.path
}

// Get returns the value at the escaped key path.
func (document *Document) Get(keys ...string) gjson.Result {
	return gjson.Get(document.content, joinDocumentKeys(keys))
}

// Set stores a value at the escaped key path, creating intermediate objects.
func (document *Document) Set(value any, keys ...string) error {
	keyPath := joinDocumentKeys(keys)
	updatedContent, setError := sjson.Set(document.content, keyPath, value)
	if setError != nil {
		return fmt.Errorf(documentEditErrorTemplateConstant, document.path, keyPath, setError)
	}
	document.content = updatedContent
	return nil
}

// Delete removes the value at the escaped key path. Missing keys are ignored.
func (document *Document) Delete(keys ...string) error {
	keyPath := joinDocumentKeys(keys)
	if !gjson.Get(document.content, keyPath).Exists() {
		return nil
	}
	updatedContent, deleteError := sjson.Delete(document.content, keyPath)
	if deleteError != nil {
		return fmt.Errorf(documentEditErrorTemplateConstant, document.path, keyPath, deleteError)
	}
	document.content = updatedContent
	return nil
}

// Bytes renders the document with two-space indentation.
func (document *Document) Bytes() []byte {
	return pretty.PrettyOptions([]byte(document.content), documentFormatOptions)
}

// Save writes the formatted document back to the tree.
func (document *Document) Save(tree Tree) error {
	if writeError := tree.Write(document.path, document.Bytes()); writeError != nil {
		return fmt.Errorf(documentWriteErrorTemplateConstant, document.path, writeError)
	}
	return nil
}

func joinDocumentKeys(keys []string) string {
	escapedKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		escapedKeys = append(escapedKeys, gjson.Escape(key))
	}
	return strings.Join(escapedKeys, documentPathSeparatorConstant)
}
