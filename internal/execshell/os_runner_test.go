package execshell_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/execshell"
)

func TestOSCommandRunnerRun(testInstance *testing.T) {
	workspaceDirectory := testInstance.TempDir()

	testCases := []struct {
		name                   string
		script                 string
		inherit                bool
		expectedExitCode       int
		expectedOutput         string
		expectedError          string
		expectedTerminalOutput string
		expectedTerminalError  string
	}{
		{name: "captured_success", script: "pwd", expectedOutput: workspaceDirectory + "\n"},
		{name: "captured_failure", script: "echo staged; echo 'lockfile needs update' 1>&2; exit 3", expectedExitCode: 3, expectedOutput: "staged\n", expectedError: "lockfile needs update\n"},
		{name: "inherited_streams", script: "echo installing; echo warning 1>&2", inherit: true, expectedError: "warning\n", expectedTerminalOutput: "installing\n", expectedTerminalError: "warning\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var terminalOutput, terminalError bytes.Buffer
			runner := &execshell.OSCommandRunner{StandardOutput: &terminalOutput, StandardError: &terminalError}

			result, runError := runner.Run(context.Background(), execshell.ShellCommand{
				Name: execshell.CommandName("sh"),
				Details: execshell.CommandDetails{
					Arguments:              []string{"-c", testCase.script},
					WorkingDirectory:       workspaceDirectory,
					InheritStandardStreams: testCase.inherit,
				},
			})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedExitCode, result.ExitCode)
			require.Equal(testInstance, testCase.expectedOutput, result.StandardOutput)
			require.Equal(testInstance, testCase.expectedError, result.StandardError)
			require.Equal(testInstance, testCase.expectedTerminalOutput, terminalOutput.String())
			require.Equal(testInstance, testCase.expectedTerminalError, terminalError.String())
		})
	}
}

func TestOSCommandRunnerReportsMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: execshell.CommandName("promote-missing-package-manager")})
	require.Error(testInstance, runError)
}
