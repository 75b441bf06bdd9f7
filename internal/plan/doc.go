// Package plan loads YAML promotion plans.
//
// A plan lists project and phase pairs that are promoted one after another
// against the same staged workspace, so a batch either stages completely or
// not at all.
package plan
