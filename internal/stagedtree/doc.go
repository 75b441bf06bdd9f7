// Package stagedtree models a workspace as an addressable store of text blobs
// with a commit boundary.
//
// Tree records writes and deletions in memory on top of a Backend holding the
// committed state. Readers observe staged content immediately; nothing reaches
// the Backend until Commit is invoked. OSBackend persists into a directory on
// disk and MemoryBackend keeps everything in a map for tests and previews.
package stagedtree
