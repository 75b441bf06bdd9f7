package promote

import (
	"go.uber.org/zap"

	"github.com/temirov/promote/internal/workspace"
)

const (
	suiteIndexMissingMessageConstant   = "Suite index not found; exports were not merged"
	packageIndexMissingMessageConstant = "Package index not found; no exports to merge"
	suiteMergedMessageConstant         = "Suite package updated"
	logFieldSuiteConstant              = "suite"
	logFieldIndexPathConstant          = "index_path"
	logFieldDependencyAddedConstant    = "dependency_added"
	logFieldExportsChangedConstant     = "exports_changed"
)

// SuiteReport records how the suite package changed.
type SuiteReport struct {
	DependencyAdded bool
	ExportsChanged  bool
}

// SuiteMerger folds a stable package into the suite package.
type SuiteMerger struct {
	logger                *zap.Logger
	suitePackage          string
	stableBaselineVersion string
}

// NewSuiteMerger constructs a merger for the configured suite package.
func NewSuiteMerger(logger *zap.Logger, suitePackage string, stableBaselineVersion string) *SuiteMerger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuiteMerger{logger: logger, suitePackage: suitePackage, stableBaselineVersion: stableBaselineVersion}
}

// Merge pins newIdentity in the suite manifest and re-exports the surface declared in packageIndexPath.
func (merger *SuiteMerger) Merge(tree workspace.Tree, index *workspace.ProjectIndex, newIdentity string, packageIndexPath string) (SuiteReport, error) {
	suite, found := index.Lookup(merger.suitePackage)
	if !found {
		return SuiteReport{}, &ProjectNotFoundError{Identity: merger.suitePackage}
	}

	report := SuiteReport{}
	dependencyAdded, manifestError := merger.pinDependency(tree, suite, newIdentity)
	if manifestError != nil {
		return SuiteReport{}, manifestError
	}
	report.DependencyAdded = dependencyAdded

	exportsChanged, exportsError := merger.mergeExports(tree, suite, newIdentity, packageIndexPath)
	if exportsError != nil {
		return SuiteReport{}, exportsError
	}
	report.ExportsChanged = exportsChanged

	merger.logger.Info(
		suiteMergedMessageConstant,
		zap.String(logFieldSuiteConstant, merger.suitePackage),
		zap.String(logFieldNewIdentityConstant, newIdentity),
		zap.Bool(logFieldDependencyAddedConstant, report.DependencyAdded),
		zap.Bool(logFieldExportsChangedConstant, report.ExportsChanged),
	)
	return report, nil
}

func (merger *SuiteMerger) pinDependency(tree workspace.Tree, suite workspace.Project, newIdentity string) (bool, error) {
	if len(suite.ManifestPath) == 0 {
		return false, &StructuralError{Subject: suite.Name, Problem: suiteManifestMissingProblemConstant}
	}
	manifest, readError := workspace.ReadManifest(tree, suite.ManifestPath)
	if readError != nil {
		return false, readError
	}
	currentRange, listed := manifest.Dependency(newIdentity)
	if listed && currentRange == merger.stableBaselineVersion {
		return false, nil
	}
	if setError := manifest.SetDependency(newIdentity, merger.stableBaselineVersion); setError != nil {
		return false, setError
	}
	return true, manifest.Save(tree)
}

func (merger *SuiteMerger) mergeExports(tree workspace.Tree, suite workspace.Project, newIdentity string, packageIndexPath string) (bool, error) {
	if !tree.Exists(packageIndexPath) {
		merger.logger.Warn(packageIndexMissingMessageConstant, zap.String(logFieldIndexPathConstant, packageIndexPath))
		return false, nil
	}
	suiteIndexPath := suite.IndexPath()
	if !tree.Exists(suiteIndexPath) {
		merger.logger.Warn(suiteIndexMissingMessageConstant, zap.String(logFieldIndexPathConstant, suiteIndexPath))
		return false, nil
	}

	packageIndex, packageReadError := tree.Read(packageIndexPath)
	if packageReadError != nil {
		return false, packageReadError
	}
	surface := ParseExportSurface(string(packageIndex))
	if surface.Empty() {
		return false, nil
	}

	suiteIndex, suiteReadError := tree.Read(suiteIndexPath)
	if suiteReadError != nil {
		return false, suiteReadError
	}
	mergedIndex, changed := MergeReExports(string(suiteIndex), newIdentity, surface)
	if !changed {
		return false, nil
	}
	return true, tree.Write(suiteIndexPath, []byte(mergedIndex))
}
