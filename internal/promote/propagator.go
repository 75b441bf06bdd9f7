package promote

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/promote/internal/projectgraph"
	"github.com/temirov/promote/internal/workspace"
)

const (
	anyVersionRangeConstant                 = "*"
	propagationSkippedMissingNodeMessage    = "Skipping dependent absent from the dependency graph"
	propagationSkippedMissingProjectMessage = "Skipping dependent absent from the workspace"
	propagationDependentUpdatedMessage      = "Dependent rewritten"
	propagationSubpathDroppedMessage        = "Dropping import subpath for suite consumer"
	propagationErrorTemplateConstant        = "unable to propagate %s to dependent %s: %w"
	logFieldDependentConstant               = "dependent"
	logFieldResolvedIdentityConstant        = "resolved_identity"
	logFieldRewrittenSpecifierCountConstant = "rewritten_specifiers"
	logFieldSourceFileConstant              = "file"
	logFieldSpecifierConstant               = "specifier"
	logFieldSubpathConstant                 = "subpath"
)

// DependentResolution names what a dependent consumes after the rename.
type DependentResolution string

const (
	// ResolutionNewIdentity keeps a direct dependency on the renamed package.
	ResolutionNewIdentity DependentResolution = "new_identity"
	// ResolutionSuite routes the dependency through the suite package.
	ResolutionSuite DependentResolution = "suite"
	// ResolutionSuiteSelf is the suite package itself; its manifest entry is managed by the suite merger.
	ResolutionSuiteSelf DependentResolution = "suite_self"
)

// DependentUpdate records the rewrite applied to one dependent.
type DependentUpdate struct {
	Identity         string
	Resolution       DependentResolution
	ResolvedIdentity string
	RewrittenFiles   []string
	ManifestChanged  bool
}

// PropagationReport summarizes a propagation pass.
type PropagationReport struct {
	Updated []DependentUpdate
	Skipped []string
}

// DependentPropagator rewrites every graph dependent of a renamed package.
type DependentPropagator struct {
	logger                 *zap.Logger
	suitePackage           string
	directConsumerPackages map[string]struct{}
	directConsumerTags     []string
}

// NewDependentPropagator constructs a propagator from the promote configuration.
func NewDependentPropagator(logger *zap.Logger, configuration Configuration) *DependentPropagator {
	if logger == nil {
		logger = zap.NewNop()
	}
	directConsumers := make(map[string]struct{}, len(configuration.DirectConsumerPackages))
	for _, consumer := range configuration.DirectConsumerPackages {
		directConsumers[consumer] = struct{}{}
	}
	return &DependentPropagator{
		logger:                 logger,
		suitePackage:           configuration.SuitePackage,
		directConsumerPackages: directConsumers,
		directConsumerTags:     append([]string{}, configuration.DirectConsumerTags...),
	}
}

// Resolve decides what project consumes instead of the renamed package.
func (propagator *DependentPropagator) Resolve(project workspace.Project) DependentResolution {
	if project.Name == propagator.suitePackage {
		return ResolutionSuiteSelf
	}
	if _, direct := propagator.directConsumerPackages[project.Name]; direct {
		return ResolutionNewIdentity
	}
	for _, tag := range propagator.directConsumerTags {
		if project.HasTag(tag) {
			return ResolutionNewIdentity
		}
	}
	return ResolutionSuite
}

// Propagate rewrites the manifests and sources of every dependent with an edge to oldIdentity.
// Dependents are visited in identity order.
func (propagator *DependentPropagator) Propagate(tree workspace.Tree, graph projectgraph.Graph, index *workspace.ProjectIndex, oldIdentity string, newIdentity string) (PropagationReport, error) {
	report := PropagationReport{}
	for _, edge := range graph.EdgesTo(oldIdentity) {
		dependentIdentity := edge.Source
		if dependentIdentity == oldIdentity || dependentIdentity == newIdentity {
			continue
		}
		if _, known := graph.Nodes[dependentIdentity]; !known {
			propagator.logger.Warn(propagationSkippedMissingNodeMessage, zap.String(logFieldDependentConstant, dependentIdentity), zap.String(logFieldOldIdentityConstant, oldIdentity))
			report.Skipped = append(report.Skipped, dependentIdentity)
			continue
		}
		dependent, found := index.Lookup(dependentIdentity)
		if !found {
			propagator.logger.Warn(propagationSkippedMissingProjectMessage, zap.String(logFieldDependentConstant, dependentIdentity), zap.String(logFieldOldIdentityConstant, oldIdentity))
			report.Skipped = append(report.Skipped, dependentIdentity)
			continue
		}

		update, updateError := propagator.updateDependent(tree, index, dependent, oldIdentity, newIdentity)
		if updateError != nil {
			return PropagationReport{}, fmt.Errorf(propagationErrorTemplateConstant, oldIdentity, dependentIdentity, updateError)
		}
		propagator.logger.Debug(
			propagationDependentUpdatedMessage,
			zap.String(logFieldDependentConstant, dependentIdentity),
			zap.String(logFieldResolvedIdentityConstant, update.ResolvedIdentity),
			zap.Int(logFieldRewrittenSpecifierCountConstant, len(update.RewrittenFiles)),
		)
		report.Updated = append(report.Updated, update)
	}
	return report, nil
}

func (propagator *DependentPropagator) updateDependent(tree workspace.Tree, index *workspace.ProjectIndex, dependent workspace.Project, oldIdentity string, newIdentity string) (DependentUpdate, error) {
	resolution := propagator.Resolve(dependent)
	update := DependentUpdate{Identity: dependent.Name, Resolution: resolution, ResolvedIdentity: newIdentity}
	keepSubpath := true
	if resolution == ResolutionSuite {
		update.ResolvedIdentity = propagator.suitePackage
		keepSubpath = false
	}

	rewrittenFiles, rewriteError := propagator.rewriteDependentSources(tree, index, dependent, oldIdentity, update.ResolvedIdentity, keepSubpath)
	if rewriteError != nil {
		return DependentUpdate{}, rewriteError
	}
	update.RewrittenFiles = rewrittenFiles

	if len(dependent.ManifestPath) == 0 {
		return update, nil
	}
	manifest, readError := workspace.ReadManifest(tree, dependent.ManifestPath)
	if readError != nil {
		return DependentUpdate{}, readError
	}

	oldEntries := manifest.DeclaredDependency(oldIdentity)
	if len(oldEntries) > 0 {
		if removeError := manifest.RemoveDependency(oldIdentity); removeError != nil {
			return DependentUpdate{}, removeError
		}
		update.ManifestChanged = true
	}

	if resolution == ResolutionSuiteSelf || len(manifest.DeclaredDependency(update.ResolvedIdentity)) > 0 {
		return update, propagator.saveManifest(tree, manifest, update)
	}
	if len(oldEntries) == 0 && len(rewrittenFiles) > 0 {
		oldEntries = []workspace.DependencyEntry{{Section: workspace.DependencySections[0], Name: oldIdentity, Range: anyVersionRangeConstant}}
	}
	// The resolved key lands in each section the old key was declared in.
	for _, oldEntry := range oldEntries {
		resolvedRange := anyVersionRangeConstant
		if resolution == ResolutionNewIdentity {
			resolvedRange = oldEntry.Range
		}
		if setError := manifest.SetSectionDependency(oldEntry.Section, update.ResolvedIdentity, resolvedRange); setError != nil {
			return DependentUpdate{}, setError
		}
		update.ManifestChanged = true
	}
	return update, propagator.saveManifest(tree, manifest, update)
}

func (propagator *DependentPropagator) saveManifest(tree workspace.Tree, manifest *workspace.Manifest, update DependentUpdate) error {
	if !update.ManifestChanged {
		return nil
	}
	return manifest.Save(tree)
}

// rewriteDependentSources rewrites import specifiers in the dependent's own source files.
// Files that belong to projects nested under the dependent root are left alone.
func (propagator *DependentPropagator) rewriteDependentSources(tree workspace.Tree, index *workspace.ProjectIndex, dependent workspace.Project, oldIdentity string, resolvedIdentity string, keepSubpath bool) ([]string, error) {
	sourceFiles, listError := workspace.SourceFiles(tree, dependent.Root)
	if listError != nil {
		return nil, listError
	}
	nestedRoots := nestedProjectRoots(index, dependent.Root)

	rewrittenFiles := []string{}
	for _, sourceFile := range sourceFiles {
		if withinAnyRoot(sourceFile, nestedRoots) {
			continue
		}
		content, readError := tree.Read(sourceFile)
		if readError != nil {
			return nil, readError
		}
		updatedContent, replacementCount := RewriteImportSpecifiers(string(content), oldIdentity, resolvedIdentity, keepSubpath)
		if replacementCount == 0 {
			continue
		}
		if !keepSubpath {
			propagator.warnDroppedSubpaths(dependent.Name, sourceFile, string(content), oldIdentity)
		}
		if writeError := tree.Write(sourceFile, []byte(updatedContent)); writeError != nil {
			return nil, writeError
		}
		rewrittenFiles = append(rewrittenFiles, sourceFile)
	}
	return rewrittenFiles, nil
}

func (propagator *DependentPropagator) warnDroppedSubpaths(dependentIdentity string, sourceFile string, content string, oldIdentity string) {
	for _, specifier := range workspace.FindImportSpecifiers(content) {
		subpath, targetsIdentity := workspace.SpecifierTargets(specifier.Value, oldIdentity)
		if !targetsIdentity || len(subpath) == 0 {
			continue
		}
		propagator.logger.Warn(
			propagationSubpathDroppedMessage,
			zap.String(logFieldDependentConstant, dependentIdentity),
			zap.String(logFieldSourceFileConstant, sourceFile),
			zap.String(logFieldSpecifierConstant, specifier.Value),
			zap.String(logFieldSubpathConstant, subpath),
		)
	}
}

func nestedProjectRoots(index *workspace.ProjectIndex, root string) []string {
	nestedRoots := []string{}
	for _, project := range index.Projects() {
		if strings.HasPrefix(project.Root, root+"/") {
			nestedRoots = append(nestedRoots, project.Root)
		}
	}
	return nestedRoots
}

func withinAnyRoot(filePath string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(filePath, root+"/") {
			return true
		}
	}
	return false
}
