package projectgraph

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/promote/internal/workspace"
)

const (
	treeMissingMessageConstant        = "workspace tree not configured"
	projectScanErrorTemplateConstant  = "unable to scan workspace projects: %w"
	projectCrawlErrorTemplateConstant = "unable to crawl project %s: %w"
	crawlStartedMessageConstant       = "Crawling workspace projects"
	crawlCompletedMessageConstant     = "Workspace dependency graph created"
	projectCrawledMessageConstant     = "Project dependencies collected"
	logFieldProjectCountConstant      = "project_count"
	logFieldDependencyCountConstant   = "dependency_count"
	logFieldProjectNameConstant       = "project"
	logFieldProjectRootConstant       = "root"
)

// ErrTreeNotConfigured indicates that the crawler has no tree to scan.
var ErrTreeNotConfigured = errors.New(treeMissingMessageConstant)

// WorkspaceCrawler derives the dependency graph by scanning project records,
// manifests, and import specifiers in a workspace tree.
type WorkspaceCrawler struct {
	tree        workspace.Tree
	logger      *zap.Logger
	concurrency int
}

// NewWorkspaceCrawler constructs a crawler over tree. Non-positive concurrency uses the CPU count.
func NewWorkspaceCrawler(tree workspace.Tree, logger *zap.Logger, concurrency int) *WorkspaceCrawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &WorkspaceCrawler{tree: tree, logger: logger, concurrency: concurrency}
}

type projectEdges struct {
	project      workspace.Project
	dependencies []Dependency
}

// CreateGraph scans every project concurrently and assembles the graph.
func (crawler *WorkspaceCrawler) CreateGraph(executionContext context.Context) (Graph, error) {
	if crawler == nil || crawler.tree == nil {
		return Graph{}, ErrTreeNotConfigured
	}

	projects, scanError := workspace.ScanProjects(crawler.tree)
	if scanError != nil {
		return Graph{}, fmt.Errorf(projectScanErrorTemplateConstant, scanError)
	}
	crawler.logger.Debug(crawlStartedMessageConstant, zap.Int(logFieldProjectCountConstant, len(projects)))

	projectNames := make(map[string]struct{}, len(projects))
	projectRoots := make([]string, 0, len(projects))
	for _, project := range projects {
		projectNames[project.Name] = struct{}{}
		projectRoots = append(projectRoots, project.Root)
	}

	if executionContext == nil {
		executionContext = context.Background()
	}

	collectedEdges := make([]projectEdges, len(projects))
	crawlGroup, groupContext := errgroup.WithContext(executionContext)
	crawlGroup.SetLimit(crawler.concurrency)
	for projectIndex, project := range projects {
		crawlGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			dependencies, crawlError := crawler.crawlProject(project, projectNames, nestedRoots(project.Root, projectRoots))
			if crawlError != nil {
				return fmt.Errorf(projectCrawlErrorTemplateConstant, project.Name, crawlError)
			}
			collectedEdges[projectIndex] = projectEdges{project: project, dependencies: dependencies}
			return nil
		})
	}
	if waitError := crawlGroup.Wait(); waitError != nil {
		return Graph{}, waitError
	}

	graph := NewGraph()
	dependencyCount := 0
	for _, edges := range collectedEdges {
		graph.AddNode(Node{Name: edges.project.Name, Type: nodeTypeFor(edges.project.Type), Root: edges.project.Root})
		for _, dependency := range edges.dependencies {
			graph.AddDependency(dependency)
			dependencyCount++
		}
		crawler.logger.Debug(
			projectCrawledMessageConstant,
			zap.String(logFieldProjectNameConstant, edges.project.Name),
			zap.String(logFieldProjectRootConstant, edges.project.Root),
			zap.Int(logFieldDependencyCountConstant, len(edges.dependencies)),
		)
	}

	crawler.logger.Info(
		crawlCompletedMessageConstant,
		zap.Int(logFieldProjectCountConstant, len(graph.Nodes)),
		zap.Int(logFieldDependencyCountConstant, dependencyCount),
	)
	return graph, nil
}

func (crawler *WorkspaceCrawler) crawlProject(project workspace.Project, projectNames map[string]struct{}, excludedRoots []string) ([]Dependency, error) {
	targets := map[string]DependencyType{}

	if len(project.ManifestPath) > 0 {
		manifest, readError := workspace.ReadManifest(crawler.tree, project.ManifestPath)
		if readError != nil {
			return nil, readError
		}
		for _, entry := range manifest.Dependencies() {
			if _, known := projectNames[entry.Name]; known {
				targets[entry.Name] = DependencyTypeStatic
			}
		}
	}

	sourceFiles, listError := workspace.SourceFiles(crawler.tree, project.Root)
	if listError != nil {
		return nil, listError
	}
	for _, sourceFile := range sourceFiles {
		if withinAnyRoot(sourceFile, excludedRoots) {
			continue
		}
		content, readError := crawler.tree.Read(sourceFile)
		if readError != nil {
			return nil, readError
		}
		for _, specifier := range workspace.FindImportSpecifiers(string(content)) {
			packageName := workspace.PackageNameOf(specifier.Value)
			if _, known := projectNames[packageName]; !known {
				continue
			}
			if _, recorded := targets[packageName]; !recorded {
				targets[packageName] = DependencyTypeStatic
			}
		}
	}

	delete(targets, project.Name)

	targetNames := make([]string, 0, len(targets))
	for targetName := range targets {
		targetNames = append(targetNames, targetName)
	}
	sort.Strings(targetNames)

	dependencies := make([]Dependency, 0, len(targetNames))
	for _, targetName := range targetNames {
		dependencies = append(dependencies, Dependency{Source: project.Name, Target: targetName, Type: targets[targetName]})
	}
	return dependencies, nil
}

func nodeTypeFor(projectType workspace.ProjectType) NodeType {
	if projectType == workspace.ProjectTypeApplication {
		return NodeTypeApplication
	}
	return NodeTypeLibrary
}

// nestedRoots returns the project roots located strictly inside root.
func nestedRoots(root string, projectRoots []string) []string {
	nested := []string{}
	for _, candidateRoot := range projectRoots {
		if candidateRoot == root {
			continue
		}
		if len(root) == 0 || strings.HasPrefix(candidateRoot, root+"/") {
			nested = append(nested, candidateRoot)
		}
	}
	return nested
}

func withinAnyRoot(filePath string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(filePath, root+"/") {
			return true
		}
	}
	return false
}
