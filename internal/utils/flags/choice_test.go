package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "stable",
			choices:        []string{"preview", "stable"},
			description:    "Lifecycle phase to promote to.",
			expectedOutput: "`<preview|STABLE>` Lifecycle phase to promote to.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "preview",
			choices:        []string{"preview", "stable"},
			description:    "",
			expectedOutput: "`<PREVIEW|stable>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "stable",
			choices:        []string{"stable", "Stable", "preview"},
			description:    "Select a phase.",
			expectedOutput: "`<STABLE|preview>` Select a phase.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestParseChoice(t *testing.T) {
	choices := []string{"preview", "stable"}

	parsed, parseError := ParseChoice(" STABLE ", choices)
	require.NoError(t, parseError)
	require.Equal(t, "stable", parsed)

	_, parseError = ParseChoice("beta", choices)
	require.ErrorContains(t, parseError, "preview|stable")
}
