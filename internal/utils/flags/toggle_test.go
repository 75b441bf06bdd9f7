package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestExecutionTogglesAcceptYesNoValues(t *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedDryRun    bool
		expectedAssumeYes bool
		expectedArgs      []string
	}{
		{name: "defaults", arguments: []string{"@proj/react-one-preview"}, expectedArgs: []string{"@proj/react-one-preview"}},
		{name: "bare_dry_run", arguments: []string{"--dry-run", "@proj/react-one-preview"}, expectedDryRun: true, expectedArgs: []string{"@proj/react-one-preview"}},
		{name: "explicit_values", arguments: []string{"--dry-run", "no", "--yes", "YES"}, expectedAssumeYes: true, expectedArgs: []string{}},
		{name: "shorthand_value", arguments: []string{"-y", "n", "@proj/react-two-preview"}, expectedArgs: []string{"@proj/react-two-preview"}},
		{name: "terminator_stops_rewrite", arguments: []string{"--", "--dry-run", "yes"}, expectedArgs: []string{"--dry-run", "yes"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}
			values := BindExecutionFlags(command, ExecutionDefaults{}, DefaultExecutionFlagDefinitions())

			require.NoError(t, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(t, testCase.expectedDryRun, values.DryRun)
			require.Equal(t, testCase.expectedAssumeYes, values.AssumeYes)
			require.Equal(t, testCase.expectedArgs, append([]string{}, command.Flags().Args()...))

			dryRun, getError := command.Flags().GetBool(DryRunFlagName)
			require.NoError(t, getError)
			require.Equal(t, testCase.expectedDryRun, dryRun)
		})
	}
}

func TestAddToggleFlagRejectsUnknownLiterals(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", "", false, "Toggle flag")

	require.Error(t, command.ParseFlags([]string{"--toggle=maybe"}))
	require.False(t, toggleValue)
	require.Equal(t, "`<yes|NO>` Toggle flag", command.Flags().Lookup("toggle").Usage)
}
