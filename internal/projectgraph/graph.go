package projectgraph

import (
	"sort"
)

// NodeType classifies a graph node.
type NodeType string

const (
	NodeTypeLibrary     NodeType = "lib"
	NodeTypeApplication NodeType = "app"
)

// DependencyType records how an edge was discovered.
type DependencyType string

const (
	DependencyTypeStatic   DependencyType = "static"
	DependencyTypeDynamic  DependencyType = "dynamic"
	DependencyTypeImplicit DependencyType = "implicit"
)

// Node is a project in the dependency graph.
type Node struct {
	Name string   `json:"name" yaml:"name"`
	Type NodeType `json:"type" yaml:"type"`
	Root string   `json:"root" yaml:"root"`
}

// Dependency is a directed edge from Source to Target.
type Dependency struct {
	Source string         `json:"source" yaml:"source"`
	Target string         `json:"target" yaml:"target"`
	Type   DependencyType `json:"type" yaml:"type"`
}

// Graph maps identities to nodes and to their outgoing edges.
type Graph struct {
	Nodes        map[string]Node         `json:"nodes" yaml:"nodes"`
	Dependencies map[string][]Dependency `json:"dependencies" yaml:"dependencies"`
}

// NewGraph constructs an empty graph.
func NewGraph() Graph {
	return Graph{Nodes: map[string]Node{}, Dependencies: map[string][]Dependency{}}
}

// AddNode registers a node, replacing any previous node with the same name.
func (graph *Graph) AddNode(node Node) {
	if graph.Nodes == nil {
		graph.Nodes = map[string]Node{}
	}
	graph.Nodes[node.Name] = node
}

// AddDependency appends an edge unless an identical edge is already present.
func (graph *Graph) AddDependency(dependency Dependency) {
	if graph.Dependencies == nil {
		graph.Dependencies = map[string][]Dependency{}
	}
	for _, existing := range graph.Dependencies[dependency.Source] {
		if existing == dependency {
			return
		}
	}
	graph.Dependencies[dependency.Source] = append(graph.Dependencies[dependency.Source], dependency)
}

// Sources lists the identities with outgoing edges, sorted.
func (graph Graph) Sources() []string {
	sources := make([]string, 0, len(graph.Dependencies))
	for source := range graph.Dependencies {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// EdgesTo returns every edge whose target is identity, ordered by source.
func (graph Graph) EdgesTo(identity string) []Dependency {
	edges := []Dependency{}
	for _, source := range graph.Sources() {
		for _, dependency := range graph.Dependencies[source] {
			if dependency.Target == identity {
				edges = append(edges, dependency)
				break
			}
		}
	}
	return edges
}
