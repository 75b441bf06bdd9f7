package promote

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/promote/internal/workspace"
)

const (
	readmeFileNameConstant             = "README.md"
	apiReportDirectoryConstant         = "etc"
	apiReportExtensionConstant         = ".api.md"
	readmeHeaderTemplateConstant       = "# %s"
	apiReportHeaderTemplateConstant    = `## API Report File for "%s"`
	renameMoveErrorTemplateConstant    = "unable to move %s to %s: %w"
	renameStageErrorTemplateConstant   = "unable to %s for %s: %w"
	renameStageManifestConstant        = "rewrite manifest"
	renameStageProjectRecordConstant   = "rewrite project record"
	renameStageSourcesConstant         = "rewrite own sources"
	renameStageHeadersConstant         = "regenerate headers"
	renameCompletedMessageConstant     = "Package identity renamed"
	logFieldOldIdentityConstant        = "old_identity"
	logFieldNewIdentityConstant        = "new_identity"
	logFieldOldRootConstant            = "old_root"
	logFieldNewRootConstant            = "new_root"
	logFieldMovedFileCountConstant     = "moved_files"
	logFieldRewrittenFileCountConstant = "rewritten_files"
)

var (
	readmeHeaderPattern    = regexp.MustCompile(`^# \S.*$`)
	apiReportHeaderPattern = regexp.MustCompile(`^## API Report File for ".*"$`)
)

// RenameResult describes where a renamed package now lives.
type RenameResult struct {
	OldIdentity   string
	NewIdentity   string
	OldRoot       string
	NewRoot       string
	NewSourceRoot string
	MovedFiles    []string
}

// IdentityRenamer moves a preview package to its stable identity and root.
type IdentityRenamer struct {
	logger                *zap.Logger
	previewSuffix         string
	stableBaselineVersion string
}

// NewIdentityRenamer constructs a renamer.
func NewIdentityRenamer(logger *zap.Logger, previewSuffix string, stableBaselineVersion string) *IdentityRenamer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityRenamer{logger: logger, previewSuffix: previewSuffix, stableBaselineVersion: stableBaselineVersion}
}

// Rename stages the move, manifest and record rewrites, own-source substitution, and header regeneration.
// Every write is confined to the old and new roots.
func (renamer *IdentityRenamer) Rename(tree workspace.Tree, project workspace.Project) (RenameResult, error) {
	result := RenameResult{
		OldIdentity: project.Name,
		NewIdentity: workspace.StripPhaseSuffix(project.Name, renamer.previewSuffix),
		OldRoot:     project.Root,
		NewRoot:     workspace.StripRootPhaseSuffix(project.Root, renamer.previewSuffix),
	}
	result.NewSourceRoot = rebasePath(project.SourceRoot, result.OldRoot, result.NewRoot)

	guardedTree := newScopedTree(tree, result.OldRoot, result.NewRoot)

	movedFiles, moveError := renamer.moveFiles(guardedTree, result)
	if moveError != nil {
		return RenameResult{}, moveError
	}
	result.MovedFiles = movedFiles

	if manifestError := renamer.rewriteManifest(guardedTree, result); manifestError != nil {
		return RenameResult{}, fmt.Errorf(renameStageErrorTemplateConstant, renameStageManifestConstant, result.OldIdentity, manifestError)
	}
	if recordError := renamer.rewriteProjectRecord(guardedTree, result); recordError != nil {
		return RenameResult{}, fmt.Errorf(renameStageErrorTemplateConstant, renameStageProjectRecordConstant, result.OldIdentity, recordError)
	}
	rewrittenCount, sourcesError := renamer.rewriteOwnSources(guardedTree, result)
	if sourcesError != nil {
		return RenameResult{}, fmt.Errorf(renameStageErrorTemplateConstant, renameStageSourcesConstant, result.OldIdentity, sourcesError)
	}
	if headersError := renamer.regenerateHeaders(guardedTree, result); headersError != nil {
		return RenameResult{}, fmt.Errorf(renameStageErrorTemplateConstant, renameStageHeadersConstant, result.OldIdentity, headersError)
	}

	renamer.logger.Info(
		renameCompletedMessageConstant,
		zap.String(logFieldOldIdentityConstant, result.OldIdentity),
		zap.String(logFieldNewIdentityConstant, result.NewIdentity),
		zap.String(logFieldOldRootConstant, result.OldRoot),
		zap.String(logFieldNewRootConstant, result.NewRoot),
		zap.Int(logFieldMovedFileCountConstant, len(result.MovedFiles)),
		zap.Int(logFieldRewrittenFileCountConstant, rewrittenCount),
	)
	return result, nil
}

func (renamer *IdentityRenamer) moveFiles(tree workspace.Tree, result RenameResult) ([]string, error) {
	files, listError := tree.Files(result.OldRoot)
	if listError != nil {
		return nil, listError
	}

	oldUnscoped := workspace.UnscopedName(result.OldIdentity)
	newUnscoped := workspace.UnscopedName(result.NewIdentity)
	movedFiles := make([]string, 0, len(files))
	for _, sourcePath := range files {
		relativeDirectory, fileName := path.Split(strings.TrimPrefix(sourcePath, result.OldRoot+"/"))
		renamedFileName, _ := ReplaceTokens(fileName, []TokenReplacement{{Old: oldUnscoped, New: newUnscoped}})
		destinationPath := path.Join(result.NewRoot, relativeDirectory, renamedFileName)
		if destinationPath == sourcePath {
			continue
		}
		if renameError := tree.Rename(sourcePath, destinationPath); renameError != nil {
			return nil, fmt.Errorf(renameMoveErrorTemplateConstant, sourcePath, destinationPath, renameError)
		}
		movedFiles = append(movedFiles, destinationPath)
	}
	return movedFiles, nil
}

func (renamer *IdentityRenamer) rewriteManifest(tree workspace.Tree, result RenameResult) error {
	manifestPath := path.Join(result.NewRoot, workspace.ManifestFileName)
	if !tree.Exists(manifestPath) {
		return nil
	}
	manifest, readError := workspace.ReadManifest(tree, manifestPath)
	if readError != nil {
		return readError
	}
	if nameError := manifest.SetName(result.NewIdentity); nameError != nil {
		return nameError
	}
	if versionError := manifest.SetVersion(renamer.stableBaselineVersion); versionError != nil {
		return versionError
	}
	if privateError := manifest.RemovePrivate(); privateError != nil {
		return privateError
	}
	return manifest.Save(tree)
}

func (renamer *IdentityRenamer) rewriteProjectRecord(tree workspace.Tree, result RenameResult) error {
	recordPath := path.Join(result.NewRoot, workspace.ProjectRecordFileName)
	if !tree.Exists(recordPath) {
		return nil
	}
	record, readError := workspace.ReadProjectRecord(tree, recordPath)
	if readError != nil {
		return readError
	}
	if nameError := record.SetName(result.NewIdentity); nameError != nil {
		return nameError
	}
	if rootError := record.SetRoot(result.NewRoot); rootError != nil {
		return rootError
	}
	if sourceRootError := record.SetSourceRoot(result.NewSourceRoot); sourceRootError != nil {
		return sourceRootError
	}
	return record.Save(tree)
}

func (renamer *IdentityRenamer) rewriteOwnSources(tree workspace.Tree, result RenameResult) (int, error) {
	sourceFiles, listError := workspace.SourceFiles(tree, result.NewRoot)
	if listError != nil {
		return 0, listError
	}

	replacements := []TokenReplacement{
		{Old: result.OldIdentity, New: result.NewIdentity},
		{Old: path.Base(result.OldRoot), New: path.Base(result.NewRoot)},
	}
	rewrittenCount := 0
	for _, sourceFile := range sourceFiles {
		content, readError := tree.Read(sourceFile)
		if readError != nil {
			return rewrittenCount, readError
		}
		updatedContent, replacementCount := ReplaceTokens(string(content), replacements)
		if replacementCount == 0 {
			continue
		}
		if writeError := tree.Write(sourceFile, []byte(updatedContent)); writeError != nil {
			return rewrittenCount, writeError
		}
		rewrittenCount++
	}
	return rewrittenCount, nil
}

func (renamer *IdentityRenamer) regenerateHeaders(tree workspace.Tree, result RenameResult) error {
	readmePath := path.Join(result.NewRoot, readmeFileNameConstant)
	if headerError := rewriteHeader(tree, readmePath, readmeHeaderPattern, fmt.Sprintf(readmeHeaderTemplateConstant, result.NewIdentity)); headerError != nil {
		return headerError
	}
	apiReportPath := path.Join(result.NewRoot, apiReportDirectoryConstant, workspace.UnscopedName(result.NewIdentity)+apiReportExtensionConstant)
	return rewriteHeader(tree, apiReportPath, apiReportHeaderPattern, fmt.Sprintf(apiReportHeaderTemplateConstant, result.NewIdentity))
}

// rewriteHeader replaces the first line of filePath when it has the header shape.
func rewriteHeader(tree workspace.Tree, filePath string, headerPattern *regexp.Regexp, header string) error {
	if !tree.Exists(filePath) {
		return nil
	}
	content, readError := tree.Read(filePath)
	if readError != nil {
		return readError
	}
	firstLine, remainder, hasRemainder := strings.Cut(string(content), lineFeedConstant)
	if !headerPattern.MatchString(firstLine) || firstLine == header {
		return nil
	}
	updatedContent := header
	if hasRemainder {
		updatedContent += lineFeedConstant + remainder
	}
	return tree.Write(filePath, []byte(updatedContent))
}

// rebasePath moves filePath from oldRoot to newRoot when it lies inside oldRoot.
func rebasePath(filePath string, oldRoot string, newRoot string) string {
	if filePath == oldRoot {
		return newRoot
	}
	if strings.HasPrefix(filePath, oldRoot+"/") {
		return newRoot + strings.TrimPrefix(filePath, oldRoot)
	}
	return filePath
}
