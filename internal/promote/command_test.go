package promote_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/promote"
	"github.com/temirov/promote/internal/stagedtree"
)

const (
	testPlanFileNameConstant = "promotions.yaml"
	testPlanContentConstant  = `promotions:
  - project: "@proj/react-two-preview"
    phase: preview
  - project: "@proj/react-one-preview"
    phase: stable
`
)

type commandHarness struct {
	builder *promote.CommandBuilder
	tree    *stagedtree.Tree
	backend *stagedtree.MemoryBackend
	runner  *recordingSideEffectRunner
	output  *bytes.Buffer
}

func newCommandHarness(testInstance *testing.T, input string) *commandHarness {
	testInstance.Helper()
	tree, backend := stagedtree.NewMemoryTree(newTestWorkspaceFiles())
	harness := &commandHarness{tree: tree, backend: backend, runner: &recordingSideEffectRunner{}, output: &bytes.Buffer{}}
	harness.builder = &promote.CommandBuilder{
		ConfigurationProvider: newTestConfiguration,
		CommandRunner:         harness.runner,
		TreeProvider: func(string) (*stagedtree.Tree, error) {
			return harness.tree, nil
		},
		Output: harness.output,
		Input:  strings.NewReader(input),
	}
	return harness
}

func (harness *commandHarness) execute(testInstance *testing.T, arguments ...string) error {
	testInstance.Helper()
	command, buildError := harness.builder.Build()
	require.NoError(testInstance, buildError)
	command.SetArgs(append([]string{"--workspace", testInstance.TempDir()}, arguments...))
	command.SetOut(harness.output)
	command.SetErr(harness.output)
	return command.Execute()
}

func TestCommandDryRunRendersWithoutCommitting(testInstance *testing.T) {
	harness := newCommandHarness(testInstance, "")
	originalSnapshot := harness.backend.Snapshot()

	require.NoError(testInstance, harness.execute(testInstance, testPreviewIdentityConstant, "--dry-run"))

	renderedOutput := harness.output.String()
	require.Contains(testInstance, renderedOutput, "CREATE packages/react-one/package.json")
	require.Contains(testInstance, renderedOutput, "DELETE packages/react-one-preview/package.json")
	require.Contains(testInstance, renderedOutput, "+export { One, renderOne_unstable } from '@proj/react-one';")
	require.Contains(testInstance, renderedOutput, "1. "+testStableReleaseCommandConstant)
	require.Contains(testInstance, renderedOutput, "4. yarn install")
	require.NotContains(testInstance, renderedOutput, "react-unrelated")

	require.Equal(testInstance, originalSnapshot, harness.backend.Snapshot())
	require.Empty(testInstance, harness.runner.invocations)
}

func TestCommandCommitsAndRunsQueuedCommands(testInstance *testing.T) {
	harness := newCommandHarness(testInstance, "")

	require.NoError(testInstance, harness.execute(testInstance, testPreviewIdentityConstant, "--yes"))

	committedFiles := harness.backend.Snapshot()
	require.Contains(testInstance, committedFiles, "packages/react-one/package.json")
	require.NotContains(testInstance, committedFiles, "packages/react-one-preview/package.json")
	require.Equal(testInstance, []string{
		".: " + testStableReleaseCommandConstant,
		".: " + testSuiteAdditionCommandConstant,
		".: " + testAPIGenerationCommandConstant,
		".: install",
	}, harness.runner.invocations)
}

func TestCommandDeclinedConfirmationSkipsCommands(testInstance *testing.T) {
	harness := newCommandHarness(testInstance, "n\n")

	require.NoError(testInstance, harness.execute(testInstance, testPreviewIdentityConstant))

	require.Contains(testInstance, harness.output.String(), "Run 3 queued command(s) in ")
	require.Contains(testInstance, harness.backend.Snapshot(), "packages/react-one/package.json")
	require.Empty(testInstance, harness.runner.invocations)
}

func TestCommandRunsPlan(testInstance *testing.T) {
	planPath := filepath.Join(testInstance.TempDir(), testPlanFileNameConstant)
	require.NoError(testInstance, os.WriteFile(planPath, []byte(testPlanContentConstant), 0o600))
	harness := newCommandHarness(testInstance, "yes\n")

	require.NoError(testInstance, harness.execute(testInstance, "--plan", planPath))

	require.Equal(testInstance, []string{
		".: " + testPreviewReleaseCommandConstant,
		".: install",
		".: " + testStableReleaseCommandConstant,
		".: " + testSuiteAdditionCommandConstant,
		".: " + testAPIGenerationCommandConstant,
		".: install",
	}, harness.runner.invocations)
}

func TestCommandRejectsInvalidArguments(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{
			name:          "missing_project",
			expectedError: "a project identity or --plan is required",
		},
		{
			name:          "project_and_plan",
			arguments:     []string{testPreviewIdentityConstant, "--plan", "promotions.yaml"},
			expectedError: "a project identity cannot be combined with --plan",
		},
		{
			name:          "unknown_phase",
			arguments:     []string{testPreviewIdentityConstant, "--phase", "beta"},
			expectedError: "unknown phase",
		},
		{
			name:          "already_released",
			arguments:     []string{"@proj/react-button"},
			expectedError: "@proj/react-button is already released as stable.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newCommandHarness(testInstance, "")
			executionError := harness.execute(testInstance, testCase.arguments...)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedError)
			require.Empty(testInstance, harness.runner.invocations)
		})
	}
}
