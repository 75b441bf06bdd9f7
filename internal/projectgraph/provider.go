package projectgraph

import "context"

// Provider produces the workspace dependency graph.
type Provider interface {
	CreateGraph(executionContext context.Context) (Graph, error)
}

// StaticProvider returns a fixed graph.
type StaticProvider struct {
	Graph Graph
}

// CreateGraph returns the configured graph.
func (provider StaticProvider) CreateGraph(executionContext context.Context) (Graph, error) {
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return Graph{}, contextError
		}
	}
	return provider.Graph, nil
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(executionContext context.Context) (Graph, error)

// CreateGraph invokes the wrapped function.
func (providerFunc ProviderFunc) CreateGraph(executionContext context.Context) (Graph, error) {
	return providerFunc(executionContext)
}
