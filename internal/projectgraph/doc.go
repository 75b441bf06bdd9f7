// Package projectgraph models the workspace dependency graph consumed by the
// promotion engine and provides graph sources: a crawler that derives edges
// from manifests and import specifiers, and a static provider for tests and
// precomputed graphs.
package projectgraph
