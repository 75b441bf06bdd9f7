package promote

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	exportNameSeparatorConstant      = ","
	exportAliasSeparatorConstant     = " as "
	exportTypeModifierConstant       = "type "
	exportDefaultNameConstant        = "default"
	exportInterfaceKeywordConstant   = "interface"
	exportTypeKeywordConstant        = "type"
	namedReExportTemplateConstant    = "export { %s } from %s%s%s;"
	typeReExportTemplateConstant     = "export type { %s } from %s%s%s;"
	wildcardReExportTemplateConstant = "export * from %s%s%s;"
	reExportQuoteConstant            = "'"
	reExportListSeparatorConstant    = ", "
	lineFeedConstant                 = "\n"
)

var (
	namedExportPattern       = regexp.MustCompile(`export\s+(type\s+)?\{([^}]*)\}(?:\s*from\s*(['"])([^'"]+)['"])?\s*;?`)
	wildcardExportPattern    = regexp.MustCompile(`export\s+\*\s+from\s*(['"])([^'"]+)['"]\s*;?`)
	namespaceExportPattern   = regexp.MustCompile(`export\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s*['"][^'"]+['"]\s*;?`)
	declarationExportPattern = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:declare\s+)?(async\s+function\s*\*?|function\s*\*?|abstract\s+class|class|const\s+enum|enum|const|let|var|interface|type|namespace)\s+([A-Za-z_$][\w$]*)`)
	lineCommentPattern       = regexp.MustCompile(`(?m)//.*$`)
	blockCommentPattern      = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// ExportSurface is the public surface an index file declares.
type ExportSurface struct {
	Values   []string
	Types    []string
	Wildcard bool
}

// Empty reports whether the surface exports nothing.
func (surface ExportSurface) Empty() bool {
	return len(surface.Values) == 0 && len(surface.Types) == 0 && !surface.Wildcard
}

// ParseExportSurface collects exported names in declaration order.
// Aliased exports contribute the exported name, and inline type modifiers
// move a name to the type-only list. Exported interface and type alias
// declarations are type-only; other exported declarations are values.
func ParseExportSurface(content string) ExportSurface {
	strippedContent := lineCommentPattern.ReplaceAllString(blockCommentPattern.ReplaceAllString(content, ""), "")

	declarations := []exportDeclaration{}
	for _, match := range namedExportPattern.FindAllStringSubmatchIndex(strippedContent, -1) {
		statementTypeOnly := match[2] >= 0
		for _, entry := range splitExportEntries(strippedContent[match[4]:match[5]]) {
			exportedName, entryTypeOnly := parseExportEntry(entry)
			declarations = append(declarations, exportDeclaration{offset: match[0], name: exportedName, typeOnly: statementTypeOnly || entryTypeOnly})
		}
	}
	for _, match := range namespaceExportPattern.FindAllStringSubmatchIndex(strippedContent, -1) {
		declarations = append(declarations, exportDeclaration{offset: match[0], name: strippedContent[match[2]:match[3]]})
	}
	for _, match := range declarationExportPattern.FindAllStringSubmatchIndex(strippedContent, -1) {
		keyword := strippedContent[match[2]:match[3]]
		typeOnly := keyword == exportInterfaceKeywordConstant || keyword == exportTypeKeywordConstant
		declarations = append(declarations, exportDeclaration{offset: match[0], name: strippedContent[match[4]:match[5]], typeOnly: typeOnly})
	}
	sort.SliceStable(declarations, func(left int, right int) bool {
		return declarations[left].offset < declarations[right].offset
	})

	surface := ExportSurface{Wildcard: wildcardExportPattern.MatchString(strippedContent)}
	seenValues := map[string]struct{}{}
	seenTypes := map[string]struct{}{}
	for _, declaration := range declarations {
		if len(declaration.name) == 0 || declaration.name == exportDefaultNameConstant {
			continue
		}
		if declaration.typeOnly {
			if _, seen := seenTypes[declaration.name]; !seen {
				seenTypes[declaration.name] = struct{}{}
				surface.Types = append(surface.Types, declaration.name)
			}
			continue
		}
		if _, seen := seenValues[declaration.name]; !seen {
			seenValues[declaration.name] = struct{}{}
			surface.Values = append(surface.Values, declaration.name)
		}
	}
	return surface
}

type exportDeclaration struct {
	offset   int
	name     string
	typeOnly bool
}

func splitExportEntries(specifierList string) []string {
	rawEntries := strings.Split(specifierList, exportNameSeparatorConstant)
	entries := make([]string, 0, len(rawEntries))
	for _, rawEntry := range rawEntries {
		normalizedEntry := strings.Join(strings.Fields(rawEntry), " ")
		if len(normalizedEntry) == 0 {
			continue
		}
		entries = append(entries, normalizedEntry)
	}
	return entries
}

// parseExportEntry returns the exported name of an entry such as "type A as B".
func parseExportEntry(entry string) (string, bool) {
	typeOnly := false
	if strings.HasPrefix(entry, exportTypeModifierConstant) {
		typeOnly = true
		entry = strings.TrimPrefix(entry, exportTypeModifierConstant)
	}
	if _, alias, aliased := strings.Cut(entry, exportAliasSeparatorConstant); aliased {
		return strings.TrimSpace(alias), typeOnly
	}
	return strings.TrimSpace(entry), typeOnly
}

// MergeReExports adds re-export statements for surface from source to content.
//
// Names are merged into an existing statement from the same source when one
// exists, otherwise one value statement and one type statement are appended.
// Names already re-exported are not duplicated.
func MergeReExports(content string, source string, surface ExportSurface) (string, bool) {
	updatedContent := content
	changed := false

	if len(surface.Values) > 0 {
		var valuesChanged bool
		updatedContent, valuesChanged = mergeNamedReExport(updatedContent, source, surface.Values, false)
		changed = changed || valuesChanged
	}
	if len(surface.Types) > 0 {
		var typesChanged bool
		updatedContent, typesChanged = mergeNamedReExport(updatedContent, source, surface.Types, true)
		changed = changed || typesChanged
	}
	if surface.Wildcard && !hasWildcardReExport(updatedContent, source) {
		updatedContent = appendStatement(updatedContent, fmt.Sprintf(wildcardReExportTemplateConstant, reExportQuoteConstant, source, reExportQuoteConstant))
		changed = true
	}
	return updatedContent, changed
}

func mergeNamedReExport(content string, source string, names []string, typeOnly bool) (string, bool) {
	statementTemplate := namedReExportTemplateConstant
	if typeOnly {
		statementTemplate = typeReExportTemplateConstant
	}

	for _, match := range namedExportPattern.FindAllStringSubmatchIndex(content, -1) {
		statementTypeOnly := match[2] >= 0
		if match[8] < 0 || statementTypeOnly != typeOnly || content[match[8]:match[9]] != source {
			continue
		}

		existingEntries := splitExportEntries(content[match[4]:match[5]])
		exportedNames := map[string]struct{}{}
		for _, entry := range existingEntries {
			exportedName, _ := parseExportEntry(entry)
			exportedNames[exportedName] = struct{}{}
		}

		mergedEntries := existingEntries
		for _, name := range names {
			if _, present := exportedNames[name]; present {
				continue
			}
			exportedNames[name] = struct{}{}
			mergedEntries = append(mergedEntries, name)
		}
		if len(mergedEntries) == len(existingEntries) {
			return content, false
		}

		quote := content[match[6]:match[7]]
		statement := fmt.Sprintf(statementTemplate, strings.Join(mergedEntries, reExportListSeparatorConstant), quote, source, quote)
		return content[:match[0]] + statement + content[match[1]:], true
	}

	statement := fmt.Sprintf(statementTemplate, strings.Join(names, reExportListSeparatorConstant), reExportQuoteConstant, source, reExportQuoteConstant)
	return appendStatement(content, statement), true
}

func hasWildcardReExport(content string, source string) bool {
	for _, match := range wildcardExportPattern.FindAllStringSubmatch(content, -1) {
		if match[2] == source {
			return true
		}
	}
	return false
}

func appendStatement(content string, statement string) string {
	if len(content) > 0 && !strings.HasSuffix(content, lineFeedConstant) {
		content += lineFeedConstant
	}
	return content + statement + lineFeedConstant
}
