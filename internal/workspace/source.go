package workspace

import (
	"path"
	"regexp"
	"strings"
)

var sourceFileExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".js":  {},
	".jsx": {},
	".mjs": {},
	".cjs": {},
	".mts": {},
	".cts": {},
	".md":  {},
	".mdx": {},
}

// IsSourceFile reports whether filePath carries a recognized source or documentation extension.
func IsSourceFile(filePath string) bool {
	_, recognized := sourceFileExtensions[strings.ToLower(path.Ext(filePath))]
	return recognized
}

// SourceFiles lists the source files beneath root, skipping generated directories.
func SourceFiles(tree Tree, root string) ([]string, error) {
	files, filesError := tree.Files(root)
	if filesError != nil {
		return nil, filesError
	}
	sourceFiles := make([]string, 0, len(files))
	for _, filePath := range files {
		if !IsSourceFile(filePath) || withinIgnoredDirectory(filePath, root) {
			continue
		}
		sourceFiles = append(sourceFiles, filePath)
	}
	return sourceFiles, nil
}

func withinIgnoredDirectory(filePath string, root string) bool {
	relativePath := strings.TrimPrefix(filePath, root+"/")
	segments := strings.Split(relativePath, "/")
	for _, segment := range segments[:len(segments)-1] {
		if _, ignored := ignoredDirectoryNames[segment]; ignored {
			return true
		}
	}
	return false
}

// importSpecifierPattern matches module specifiers in static imports, re-exports,
// dynamic imports, require calls, and jest.mock calls. The third group is the specifier.
var importSpecifierPattern = regexp.MustCompile(`(\bfrom\s*|\bimport\s*\(?\s*|\brequire\s*\(\s*|\bjest\.mock\s*\(\s*)(['"])([^'"\s]+)['"]`)

// ImportSpecifier is one module specifier occurrence inside a source file.
type ImportSpecifier struct {
	Value        string
	Start        int
	End          int
	KeywordStart int
}

// FindImportSpecifiers returns the module specifiers referenced by content in order of appearance.
// Start and End delimit the specifier text without its quotes; KeywordStart is
// the offset of the import keyword preceding it.
func FindImportSpecifiers(content string) []ImportSpecifier {
	matches := importSpecifierPattern.FindAllStringSubmatchIndex(content, -1)
	specifiers := make([]ImportSpecifier, 0, len(matches))
	for _, match := range matches {
		specifiers = append(specifiers, ImportSpecifier{
			Value:        content[match[6]:match[7]],
			Start:        match[6],
			End:          match[7],
			KeywordStart: match[2],
		})
	}
	return specifiers
}

// SpecifierTargets reports whether specifier names identity itself or a subpath of it,
// returning the subpath (including its leading slash) when present.
func SpecifierTargets(specifier string, identity string) (string, bool) {
	if specifier == identity {
		return "", true
	}
	if strings.HasPrefix(specifier, identity+"/") {
		return strings.TrimPrefix(specifier, identity), true
	}
	return "", false
}

// PackageNameOf returns the package portion of a module specifier:
// "@scope/name" for scoped specifiers and the first segment otherwise.
func PackageNameOf(specifier string) string {
	segments := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") && len(segments) >= 2 {
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}
