// Package promote moves workspace packages through their release lifecycle.
//
// A stable promotion renames a "-preview" package to its stable identity and
// root, rewrites every dependent found in the dependency graph, folds the
// package's exports into the suite package, and updates the ownership record
// and path-alias tables. A preview release publishes the package without
// renaming it. All edits are staged into a stagedtree.Tree; the release
// commands they imply are returned in a SideEffectQueue that the caller runs
// only after committing the tree.
package promote
