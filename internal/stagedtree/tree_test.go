package stagedtree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/stagedtree"
)

const (
	testManifestPathConstant      = "packages/react-one-preview/package.json"
	testIndexPathConstant         = "packages/react-one-preview/src/index.ts"
	testRelocatedIndexConstant    = "packages/react-one/src/index.ts"
	testManifestContentConstant   = "{\"name\":\"@proj/react-one-preview\"}"
	testIndexContentConstant      = "export { One } from './One';\n"
	testUpdatedIndexContent       = "export { One, Two } from './One';\n"
	testUnrelatedPathConstant     = "packages/other/package.json"
	testUnrelatedContentConstant  = "{\"name\":\"@proj/other\"}"
	testEscapingPathConstant      = "../outside.txt"
	testPackagesDirectoryConstant = "packages"
)

func newSeededTree() (*stagedtree.Tree, *stagedtree.MemoryBackend) {
	return stagedtree.NewMemoryTree(map[string]string{
		testManifestPathConstant:  testManifestContentConstant,
		testIndexPathConstant:     testIndexContentConstant,
		testUnrelatedPathConstant: testUnrelatedContentConstant,
	})
}

func TestTreeReadsThroughStagedState(testInstance *testing.T) {
	testCases := []struct {
		name            string
		mutate          func(tree *stagedtree.Tree) error
		readPath        string
		expectedContent string
		expectMissing   bool
	}{
		{
			name:            "committed_content",
			mutate:          func(tree *stagedtree.Tree) error { return nil },
			readPath:        testIndexPathConstant,
			expectedContent: testIndexContentConstant,
		},
		{
			name: "staged_overwrite",
			mutate: func(tree *stagedtree.Tree) error {
				return tree.WriteText(testIndexPathConstant, testUpdatedIndexContent)
			},
			readPath:        testIndexPathConstant,
			expectedContent: testUpdatedIndexContent,
		},
		{
			name: "staged_deletion",
			mutate: func(tree *stagedtree.Tree) error {
				return tree.Delete(testIndexPathConstant)
			},
			readPath:      testIndexPathConstant,
			expectMissing: true,
		},
		{
			name:          "never_existed",
			mutate:        func(tree *stagedtree.Tree) error { return nil },
			readPath:      "packages/absent/package.json",
			expectMissing: true,
		},
		{
			name: "leading_slash_normalized",
			mutate: func(tree *stagedtree.Tree) error {
				return tree.WriteText("/"+testIndexPathConstant, testUpdatedIndexContent)
			},
			readPath:        testIndexPathConstant,
			expectedContent: testUpdatedIndexContent,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			tree, _ := newSeededTree()
			require.NoError(testInstance, testCase.mutate(tree))

			content, readError := tree.ReadText(testCase.readPath)
			if testCase.expectMissing {
				require.ErrorIs(testInstance, readError, stagedtree.ErrFileNotFound)
				require.False(testInstance, tree.Exists(testCase.readPath))
				return
			}
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedContent, content)
			require.True(testInstance, tree.Exists(testCase.readPath))
		})
	}
}

func TestTreeRejectsPathsEscapingTheWorkspace(testInstance *testing.T) {
	tree, _ := newSeededTree()

	require.Error(testInstance, tree.WriteText(testEscapingPathConstant, "x"))
	require.Error(testInstance, tree.Delete(testEscapingPathConstant))
	require.Error(testInstance, tree.WriteText("", "x"))
}

func TestTreeChildrenReflectStagedMoves(testInstance *testing.T) {
	tree, _ := newSeededTree()

	require.NoError(testInstance, tree.Rename(testIndexPathConstant, testRelocatedIndexConstant))
	require.NoError(testInstance, tree.Rename(testManifestPathConstant, "packages/react-one/package.json"))

	children, childrenError := tree.Children(testPackagesDirectoryConstant)
	require.NoError(testInstance, childrenError)
	require.Equal(testInstance, []string{"other", "react-one"}, children)

	oldRootFiles, filesError := tree.Files("packages/react-one-preview")
	require.NoError(testInstance, filesError)
	require.Empty(testInstance, oldRootFiles)

	newRootFiles, filesError := tree.Files("packages/react-one")
	require.NoError(testInstance, filesError)
	require.Equal(testInstance, []string{"packages/react-one/package.json", testRelocatedIndexConstant}, newRootFiles)
}

func TestTreeChangesOmitNoOpWrites(testInstance *testing.T) {
	tree, _ := newSeededTree()

	require.NoError(testInstance, tree.WriteText(testUnrelatedPathConstant, testUnrelatedContentConstant))
	require.NoError(testInstance, tree.WriteText(testIndexPathConstant, testUpdatedIndexContent))
	require.NoError(testInstance, tree.WriteText("packages/new/package.json", "{}"))
	require.NoError(testInstance, tree.Delete(testManifestPathConstant))
	require.NoError(testInstance, tree.Delete("packages/absent/file.ts"))

	changes, changesError := tree.Changes()
	require.NoError(testInstance, changesError)
	require.Len(testInstance, changes, 3)

	require.Equal(testInstance, "packages/new/package.json", changes[0].Path)
	require.Equal(testInstance, stagedtree.ChangeCreate, changes[0].Type)
	require.Equal(testInstance, testManifestPathConstant, changes[1].Path)
	require.Equal(testInstance, stagedtree.ChangeDelete, changes[1].Type)
	require.Equal(testInstance, testIndexPathConstant, changes[2].Path)
	require.Equal(testInstance, stagedtree.ChangeUpdate, changes[2].Type)
	require.Equal(testInstance, testIndexContentConstant, string(changes[2].Before))
	require.Equal(testInstance, testUpdatedIndexContent, string(changes[2].After))
}

func TestTreeCommitPersistsToMemoryBackend(testInstance *testing.T) {
	tree, backend := newSeededTree()

	require.NoError(testInstance, tree.Rename(testIndexPathConstant, testRelocatedIndexConstant))
	require.NoError(testInstance, tree.Commit())

	snapshot := backend.Snapshot()
	require.NotContains(testInstance, snapshot, testIndexPathConstant)
	require.Equal(testInstance, testIndexContentConstant, snapshot[testRelocatedIndexConstant])

	changes, changesError := tree.Changes()
	require.NoError(testInstance, changesError)
	require.Empty(testInstance, changes)
}

func TestTreeCommitPersistsToOperatingSystemBackend(testInstance *testing.T) {
	workspaceRoot := testInstance.TempDir()
	oldRootDirectory := filepath.Join(workspaceRoot, "packages", "react-one-preview", "src")
	require.NoError(testInstance, os.MkdirAll(oldRootDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(oldRootDirectory, "index.ts"), []byte(testIndexContentConstant), 0o644))

	backend, backendError := stagedtree.NewOSBackend(workspaceRoot, nil)
	require.NoError(testInstance, backendError)
	tree, treeError := stagedtree.New(backend)
	require.NoError(testInstance, treeError)

	require.NoError(testInstance, tree.Rename(testIndexPathConstant, testRelocatedIndexConstant))

	_, statError := os.Stat(filepath.Join(workspaceRoot, filepath.FromSlash(testRelocatedIndexConstant)))
	require.True(testInstance, os.IsNotExist(statError))

	require.NoError(testInstance, tree.Commit())

	relocatedContent, readError := os.ReadFile(filepath.Join(workspaceRoot, filepath.FromSlash(testRelocatedIndexConstant)))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testIndexContentConstant, string(relocatedContent))

	_, oldRootError := os.Stat(filepath.Join(workspaceRoot, "packages", "react-one-preview"))
	require.True(testInstance, os.IsNotExist(oldRootError))
}

func TestNewRequiresBackend(testInstance *testing.T) {
	tree, creationError := stagedtree.New(nil)
	require.Error(testInstance, creationError)
	require.Nil(testInstance, tree)
}
