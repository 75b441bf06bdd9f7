package workspace

import (
	"fmt"
	"strings"
)

const (
	ownershipLineSeparatorConstant = "\n"
	ownershipCommentPrefixConstant = "#"
	ownershipPathSeparatorConstant = "/"
	ownershipReadErrorTemplate     = "unable to read %s: %w"
)

// OwnershipRecord is a CODEOWNERS file viewed as ordered lines.
type OwnershipRecord struct {
	path  string
	lines []string
}

// ReadOwnershipRecord loads the ownership record stored at recordPath.
func ReadOwnershipRecord(tree Tree, recordPath string) (*OwnershipRecord, error) {
	content, readError := tree.Read(recordPath)
	if readError != nil {
		return nil, fmt.Errorf(ownershipReadErrorTemplate, recordPath, readError)
	}
	return ParseOwnershipRecord(recordPath, string(content)), nil
}

// ParseOwnershipRecord splits content into lines, preserving blank lines and comments.
func ParseOwnershipRecord(recordPath string, content string) *OwnershipRecord {
	return &OwnershipRecord{path: recordPath, lines: strings.Split(content, ownershipLineSeparatorConstant)}
}

func (record *OwnershipRecord) Path() string {
	return record.path
}

// RewriteRoot replaces the path prefix of the first line owning oldRoot.
// Leading and trailing slashes of the original prefix are kept.
func (record *OwnershipRecord) RewriteRoot(oldRoot string, newRoot string) bool {
	for lineIndex, line := range record.lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], ownershipCommentPrefixConstant) {
			continue
		}
		if !ownershipPrefixMatches(fields[0], oldRoot) {
			continue
		}

		replacementPrefix := newRoot
		if strings.HasPrefix(fields[0], ownershipPathSeparatorConstant) {
			replacementPrefix = ownershipPathSeparatorConstant + replacementPrefix
		}
		if strings.HasSuffix(fields[0], ownershipPathSeparatorConstant) {
			replacementPrefix += ownershipPathSeparatorConstant
		}
		prefixOffset := strings.Index(line, fields[0])
		record.lines[lineIndex] = line[:prefixOffset] + replacementPrefix + line[prefixOffset+len(fields[0]):]
		return true
	}
	return false
}

// String renders the record with its original line structure.
func (record *OwnershipRecord) String() string {
	return strings.Join(record.lines, ownershipLineSeparatorConstant)
}

func (record *OwnershipRecord) Save(tree Tree) error {
	return tree.Write(record.path, []byte(record.String()))
}

func ownershipPrefixMatches(prefix string, root string) bool {
	trimmedPrefix := strings.Trim(prefix, ownershipPathSeparatorConstant)
	trimmedRoot := strings.Trim(root, ownershipPathSeparatorConstant)
	return len(trimmedRoot) > 0 && trimmedPrefix == trimmedRoot
}
