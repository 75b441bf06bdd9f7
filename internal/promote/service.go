package promote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/promote/internal/projectgraph"
	"github.com/temirov/promote/internal/stagedtree"
	"github.com/temirov/promote/internal/workspace"
)

const (
	treeMissingMessageConstant            = "staged workspace tree not configured"
	projectIdentityMissingMessageConstant = "project identity must be provided"
	graphLoadErrorTemplateConstant        = "unable to load dependency graph: %w"
	indexLoadErrorTemplateConstant        = "unable to index workspace projects: %w"
	manifestLoadErrorTemplateConstant     = "unable to read manifest of %s: %w"
	stepErrorTemplateConstant             = "promotion step %s failed: %w"
	changesErrorTemplateConstant          = "unable to list staged changes: %w"
	promotionStartedMessageConstant       = "Promotion started"
	promotionStagedMessageConstant        = "Promotion staged"
	logFieldProjectConstant               = "project"
	logFieldPhaseConstant                 = "phase"
	logFieldChangedPathCountConstant      = "changed_paths"
	logFieldQueuedCommandCountConstant    = "queued_commands"
)

var (
	// ErrTreeNotConfigured indicates that Migrate was called without a staged tree.
	ErrTreeNotConfigured = errors.New(treeMissingMessageConstant)
	// ErrProjectIdentityMissing indicates that no project identity was requested.
	ErrProjectIdentityMissing = errors.New(projectIdentityMissingMessageConstant)
)

// ServiceDependencies describes the collaborators of a promotion.
type ServiceDependencies struct {
	Logger        *zap.Logger
	GraphProvider projectgraph.Provider
	CommandRunner CommandRunner
	Configuration Configuration
}

// Options selects the package and target phase.
type Options struct {
	Project string
	Phase   Phase
}

// Result describes a staged promotion.
type Result struct {
	Queue        *SideEffectQueue
	NewIdentity  string
	NewRoot      string
	ChangedPaths []string
}

// Service stages promotions over a workspace tree.
type Service struct {
	logger        *zap.Logger
	graphProvider projectgraph.Provider
	commandRunner CommandRunner
	configuration Configuration
}

// NewService constructs a Service. A nil graph provider crawls the staged tree.
func NewService(dependencies ServiceDependencies) *Service {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:        logger,
		graphProvider: dependencies.GraphProvider,
		commandRunner: dependencies.CommandRunner,
		configuration: dependencies.Configuration.Sanitize(),
	}
}

// Migrate validates the request and stages every mutation into tree.
// Nothing is committed and no command is run; the caller commits tree and then executes Result.Queue.
func (service *Service) Migrate(executionContext context.Context, tree *stagedtree.Tree, options Options) (Result, error) {
	if tree == nil {
		return Result{}, ErrTreeNotConfigured
	}
	identity := strings.TrimSpace(options.Project)
	if len(identity) == 0 {
		return Result{}, ErrProjectIdentityMissing
	}
	if options.Phase != PhasePreview && options.Phase != PhaseStable {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPhase, options.Phase)
	}

	service.logger.Info(promotionStartedMessageConstant, zap.String(logFieldProjectConstant, identity), zap.String(logFieldPhaseConstant, string(options.Phase)))

	graph, graphError := service.resolveGraphProvider(tree).CreateGraph(executionContext)
	if graphError != nil {
		return Result{}, fmt.Errorf(graphLoadErrorTemplateConstant, graphError)
	}

	index, indexError := workspace.LoadProjectIndex(tree)
	if indexError != nil {
		return Result{}, fmt.Errorf(indexLoadErrorTemplateConstant, indexError)
	}
	project, found := index.Lookup(identity)
	if !found || len(project.ManifestPath) == 0 {
		return Result{}, &ProjectNotFoundError{Identity: identity}
	}
	manifest, manifestError := workspace.ReadManifest(tree, project.ManifestPath)
	if manifestError != nil {
		return Result{}, fmt.Errorf(manifestLoadErrorTemplateConstant, identity, manifestError)
	}

	if validationError := NewPhaseValidator(service.configuration.PreviewSuffix).Validate(identity, manifest, options.Phase); validationError != nil {
		return Result{}, validationError
	}

	environment := service.newEnvironment(tree, graph, index)
	if preflightError := service.preflight(environment, options.Phase); preflightError != nil {
		return Result{}, preflightError
	}

	state := &State{Project: project, Manifest: manifest, Phase: options.Phase}
	operations := PreviewOperations()
	if options.Phase == PhaseStable {
		operations = StableOperations()
	}
	for _, operation := range operations {
		if executeError := operation.Execute(executionContext, environment, state); executeError != nil {
			return Result{}, fmt.Errorf(stepErrorTemplateConstant, operation.Name(), executeError)
		}
	}

	changes, changesError := tree.Changes()
	if changesError != nil {
		return Result{}, fmt.Errorf(changesErrorTemplateConstant, changesError)
	}
	result := Result{Queue: environment.Queue, NewIdentity: project.Name, NewRoot: project.Root}
	if options.Phase == PhaseStable {
		result.NewIdentity = state.Rename.NewIdentity
		result.NewRoot = state.Rename.NewRoot
	}
	for _, change := range changes {
		result.ChangedPaths = append(result.ChangedPaths, change.Path)
	}

	service.logger.Info(
		promotionStagedMessageConstant,
		zap.String(logFieldProjectConstant, identity),
		zap.String(logFieldNewIdentityConstant, result.NewIdentity),
		zap.Int(logFieldChangedPathCountConstant, len(result.ChangedPaths)),
		zap.Int(logFieldQueuedCommandCountConstant, len(result.Queue.Commands())),
	)
	return result, nil
}

func (service *Service) resolveGraphProvider(tree *stagedtree.Tree) projectgraph.Provider {
	if service.graphProvider != nil {
		return service.graphProvider
	}
	return projectgraph.NewWorkspaceCrawler(tree, service.logger, service.configuration.GraphConcurrency)
}

func (service *Service) newEnvironment(tree *stagedtree.Tree, graph projectgraph.Graph, index *workspace.ProjectIndex) *Environment {
	configuration := service.configuration
	return &Environment{
		Tree:          tree,
		Graph:         graph,
		Index:         index,
		Configuration: configuration,
		Logger:        service.logger,
		Renamer:       NewIdentityRenamer(service.logger, configuration.PreviewSuffix, configuration.StableBaselineVersion),
		Propagator:    NewDependentPropagator(service.logger, configuration),
		SuiteMerger:   NewSuiteMerger(service.logger, configuration.SuitePackage, configuration.StableBaselineVersion),
		GlobalConfig:  NewGlobalConfigUpdater(service.logger, configuration),
		Queue:         NewSideEffectQueue(service.commandRunner, configuration.PackageManager, service.workingDirectory(tree)),
	}
}

// preflight checks the workspace files a stable promotion cannot proceed without.
func (service *Service) preflight(environment *Environment, phase Phase) error {
	if phase != PhaseStable {
		return nil
	}
	if tablesError := environment.GlobalConfig.Preflight(environment.Tree); tablesError != nil {
		return tablesError
	}
	suite, found := environment.Index.Lookup(service.configuration.SuitePackage)
	if !found {
		return &ProjectNotFoundError{Identity: service.configuration.SuitePackage}
	}
	if len(suite.ManifestPath) == 0 {
		return &StructuralError{Subject: suite.Name, Problem: suiteManifestMissingProblemConstant}
	}
	return nil
}

// workingDirectory returns the directory deferred commands run in.
func (service *Service) workingDirectory(tree *stagedtree.Tree) string {
	if rootDirectory := tree.RootDirectory(); len(rootDirectory) > 0 {
		return rootDirectory
	}
	return service.configuration.WorkspaceRoot
}
