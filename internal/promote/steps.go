package promote

import (
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/temirov/promote/internal/projectgraph"
	"github.com/temirov/promote/internal/workspace"
)

const (
	renameStepNameConstant               = "rename"
	propagateStepNameConstant            = "propagate"
	suiteStepNameConstant                = "suite"
	globalConfigStepNameConstant         = "global-config"
	stableSideEffectsStepNameConstant    = "stable-side-effects"
	previewReleaseStepNameConstant       = "preview-release"
	previewSideEffectsStepNameConstant   = "preview-side-effects"
	docsitePackageMissingMessageConstant = "Docsite package not found; skipping dependency"
	previewReleasedMessageConstant       = "Preview package prepared for release"
	logFieldDocsitePackageConstant       = "docsite_package"
)

// Operation is one ordered step of a promotion.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// Environment exposes the collaborators shared by promotion steps.
type Environment struct {
	Tree          workspace.Tree
	Graph         projectgraph.Graph
	Index         *workspace.ProjectIndex
	Configuration Configuration
	Logger        *zap.Logger
	Renamer       *IdentityRenamer
	Propagator    *DependentPropagator
	SuiteMerger   *SuiteMerger
	GlobalConfig  *GlobalConfigUpdater
	Queue         *SideEffectQueue
}

// State carries results between promotion steps.
type State struct {
	Project     workspace.Project
	Manifest    *workspace.Manifest
	Phase       Phase
	Rename      RenameResult
	Propagation PropagationReport
	Suite       SuiteReport
}

// StableOperations lists the steps of a stable promotion in order.
func StableOperations() []Operation {
	return []Operation{
		renameOperation{},
		propagateOperation{},
		suiteOperation{},
		globalConfigOperation{},
		stableSideEffectsOperation{},
	}
}

// PreviewOperations lists the steps of a preview release in order.
func PreviewOperations() []Operation {
	return []Operation{
		previewReleaseOperation{},
		previewSideEffectsOperation{},
	}
}

type renameOperation struct{}

func (renameOperation) Name() string { return renameStepNameConstant }

func (renameOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	rename, renameError := environment.Renamer.Rename(environment.Tree, state.Project)
	if renameError != nil {
		return renameError
	}
	state.Rename = rename
	return nil
}

type propagateOperation struct{}

func (propagateOperation) Name() string { return propagateStepNameConstant }

func (propagateOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	report, propagateError := environment.Propagator.Propagate(environment.Tree, environment.Graph, environment.Index, state.Rename.OldIdentity, state.Rename.NewIdentity)
	if propagateError != nil {
		return propagateError
	}
	state.Propagation = report
	return nil
}

type suiteOperation struct{}

func (suiteOperation) Name() string { return suiteStepNameConstant }

func (suiteOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	packageIndexPath := path.Join(state.Rename.NewSourceRoot, indexEntryFileNameConstant)
	report, mergeError := environment.SuiteMerger.Merge(environment.Tree, environment.Index, state.Rename.NewIdentity, packageIndexPath)
	if mergeError != nil {
		return mergeError
	}
	state.Suite = report
	return nil
}

type globalConfigOperation struct{}

func (globalConfigOperation) Name() string { return globalConfigStepNameConstant }

func (globalConfigOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	return environment.GlobalConfig.Update(environment.Tree, state.Rename)
}

type stableSideEffectsOperation struct{}

func (stableSideEffectsOperation) Name() string { return stableSideEffectsStepNameConstant }

func (stableSideEffectsOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	environment.Queue.EnqueueStableRelease(state.Rename.NewIdentity)
	if state.Suite.DependencyAdded {
		environment.Queue.EnqueueSuiteAddition(state.Rename.NewIdentity, environment.Configuration.SuitePackage)
	}
	if state.Suite.ExportsChanged {
		environment.Queue.EnqueueAPIGeneration(environment.Configuration.SuitePackage)
	}
	return nil
}

// previewReleaseOperation publishes a preview package without renaming it.
type previewReleaseOperation struct{}

func (previewReleaseOperation) Name() string { return previewReleaseStepNameConstant }

func (previewReleaseOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	if privateError := state.Manifest.RemovePrivate(); privateError != nil {
		return privateError
	}
	if saveError := state.Manifest.Save(environment.Tree); saveError != nil {
		return saveError
	}

	for _, docsitePackage := range environment.Configuration.DocsitePackages {
		docsite, found := environment.Index.Lookup(docsitePackage)
		if !found || len(docsite.ManifestPath) == 0 {
			environment.Logger.Warn(docsitePackageMissingMessageConstant, zap.String(logFieldDocsitePackageConstant, docsitePackage))
			continue
		}
		manifest, readError := workspace.ReadManifest(environment.Tree, docsite.ManifestPath)
		if readError != nil {
			return readError
		}
		if _, listed := manifest.Dependency(state.Project.Name); listed {
			continue
		}
		if setError := manifest.SetDependency(state.Project.Name, anyVersionRangeConstant); setError != nil {
			return setError
		}
		if saveError := manifest.Save(environment.Tree); saveError != nil {
			return saveError
		}
	}

	environment.Logger.Info(previewReleasedMessageConstant, zap.String(logFieldOldIdentityConstant, state.Project.Name))
	return nil
}

type previewSideEffectsOperation struct{}

func (previewSideEffectsOperation) Name() string { return previewSideEffectsStepNameConstant }

func (previewSideEffectsOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	environment.Queue.EnqueuePreviewRelease(state.Project.Name)
	return nil
}
