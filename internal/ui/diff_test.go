package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/stagedtree"
	"github.com/temirov/promote/internal/ui"
)

func TestChangeRendererRendersUnifiedDiffs(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := ui.NewChangeRenderer(&output, false)

	require.NoError(testInstance, renderer.RenderChanges([]stagedtree.FileChange{
		{Path: "packages/react-one/package.json", Type: stagedtree.ChangeCreate, After: []byte("{\n  \"name\": \"@proj/react-one\"\n}\n")},
		{Path: "packages/react-one-preview/package.json", Type: stagedtree.ChangeDelete, Before: []byte("{\n  \"name\": \"@proj/react-one-preview\"\n}\n")},
	}))

	rendered := output.String()
	require.Contains(testInstance, rendered, "CREATE packages/react-one/package.json\n")
	require.Contains(testInstance, rendered, "DELETE packages/react-one-preview/package.json\n")
	require.Contains(testInstance, rendered, "+  \"name\": \"@proj/react-one\"\n")
	require.Contains(testInstance, rendered, "-  \"name\": \"@proj/react-one-preview\"\n")
	require.True(testInstance, strings.HasSuffix(rendered, "2 file(s) staged\n"))
	require.NotContains(testInstance, rendered, "\x1b[")
}

func TestChangeRendererReportsEmptyInputs(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := ui.NewChangeRenderer(&output, false)

	require.NoError(testInstance, renderer.RenderChanges(nil))
	require.NoError(testInstance, renderer.RenderCommands(nil))
	require.Equal(testInstance, "No staged changes\nNo queued commands\n", output.String())
}

func TestChangeRendererListsCommandsInOrder(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := ui.NewChangeRenderer(&output, false)

	require.NoError(testInstance, renderer.RenderCommands([]string{
		"yarn change --message 'feat: release stable' --type minor --package @proj/react-one",
		"yarn lage generate-api --to @proj/react-components",
	}))
	require.Equal(testInstance, "Queued commands:\n  1. yarn change --message 'feat: release stable' --type minor --package @proj/react-one\n  2. yarn lage generate-api --to @proj/react-components\n", output.String())
}

func TestIOConfirmationPrompter(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "yes\n", expected: true},
		{name: "short_yes", input: "Y\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "eof", input: "", expected: false},
		{name: "unterminated_yes", input: " yes", expected: true},
		{name: "other_word", input: "sure\n", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var output bytes.Buffer
			prompter := ui.NewIOConfirmationPrompter(strings.NewReader(testCase.input), &output)
			confirmed, confirmError := prompter.Confirm("Run queued commands? [y/N] ")
			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expected, confirmed)
			require.Equal(testInstance, "Run queued commands? [y/N] ", output.String())
		})
	}
}
