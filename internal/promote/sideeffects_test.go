package promote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/promote/internal/execshell"
	"github.com/temirov/promote/internal/promote"
)

type recordingSideEffectRunner struct {
	failingCommandLine string
	installError       error
	invocations        []string
}

func (runner *recordingSideEffectRunner) RunCommandLine(_ context.Context, commandLine string, workingDirectory string) error {
	runner.invocations = append(runner.invocations, workingDirectory+": "+commandLine)
	if commandLine == runner.failingCommandLine {
		return errors.New("exit status 1")
	}
	return nil
}

func (runner *recordingSideEffectRunner) InstallDependencies(_ context.Context, workingDirectory string) error {
	runner.invocations = append(runner.invocations, workingDirectory+": install")
	return runner.installError
}

type recordingShellRunner struct {
	commands []execshell.ShellCommand
}

func (runner *recordingShellRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.commands = append(runner.commands, command)
	return execshell.ExecutionResult{}, nil
}

func newStableQueue(runner promote.CommandRunner) *promote.SideEffectQueue {
	queue := promote.NewSideEffectQueue(runner, "yarn", "/workspace")
	queue.EnqueueStableRelease(testStableIdentityConstant)
	queue.EnqueueSuiteAddition(testStableIdentityConstant, testSuiteIdentityConstant)
	queue.EnqueueAPIGeneration(testSuiteIdentityConstant)
	return queue
}

func TestSideEffectQueueExecute(testInstance *testing.T) {
	testCases := []struct {
		name                string
		runner              *recordingSideEffectRunner
		expectedInvocations []string
		expectedError       string
	}{
		{
			name:   "all_commands_then_install",
			runner: &recordingSideEffectRunner{},
			expectedInvocations: []string{
				"/workspace: " + testStableReleaseCommandConstant,
				"/workspace: " + testSuiteAdditionCommandConstant,
				"/workspace: " + testAPIGenerationCommandConstant,
				"/workspace: install",
			},
		},
		{
			name:   "failure_stops_the_queue",
			runner: &recordingSideEffectRunner{failingCommandLine: testSuiteAdditionCommandConstant},
			expectedInvocations: []string{
				"/workspace: " + testStableReleaseCommandConstant,
				"/workspace: " + testSuiteAdditionCommandConstant,
			},
			expectedError: "side-effect command \"" + testSuiteAdditionCommandConstant + "\" failed: exit status 1",
		},
		{
			name:   "install_failure",
			runner: &recordingSideEffectRunner{installError: errors.New("network unreachable")},
			expectedInvocations: []string{
				"/workspace: " + testStableReleaseCommandConstant,
				"/workspace: " + testSuiteAdditionCommandConstant,
				"/workspace: " + testAPIGenerationCommandConstant,
				"/workspace: install",
			},
			expectedError: "dependency installation in /workspace failed: network unreachable",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			queue := newStableQueue(testCase.runner)
			executionError := queue.Deferred(context.Background())()
			if len(testCase.expectedError) == 0 {
				require.NoError(testInstance, executionError)
			} else {
				require.EqualError(testInstance, executionError, testCase.expectedError)
			}
			require.Equal(testInstance, testCase.expectedInvocations, testCase.runner.invocations)
		})
	}
}

func TestSideEffectQueueWithoutRunner(testInstance *testing.T) {
	queue := newStableQueue(nil)
	require.Len(testInstance, queue.Commands(), 3)
	require.ErrorIs(testInstance, queue.Execute(context.Background()), promote.ErrCommandRunnerNotConfigured)

	var missingQueue *promote.SideEffectQueue
	require.Nil(testInstance, missingQueue.Commands())
}

func TestSideEffectQueueCommandsAreCopies(testInstance *testing.T) {
	queue := newStableQueue(nil)
	commands := queue.Commands()
	commands[0].CommandLine = "rm -rf /"
	require.Equal(testInstance, testStableReleaseCommandConstant, queue.Commands()[0].CommandLine)
}

func TestShellCommandRunner(testInstance *testing.T) {
	shellRunner := &recordingShellRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), shellRunner)
	require.NoError(testInstance, creationError)

	queue := newStableQueue(promote.NewShellCommandRunner(executor, "yarn"))
	require.NoError(testInstance, queue.Execute(context.Background()))

	require.Len(testInstance, shellRunner.commands, 4)
	require.Equal(testInstance, []string{"lage", "generate-api", "--to", testSuiteIdentityConstant}, shellRunner.commands[2].Details.Arguments)
	installCommand := shellRunner.commands[3]
	require.Equal(testInstance, execshell.CommandYarn, installCommand.Name)
	require.Equal(testInstance, []string{"install"}, installCommand.Details.Arguments)
	require.Equal(testInstance, "/workspace", installCommand.Details.WorkingDirectory)
	require.True(testInstance, installCommand.Details.InheritStandardStreams)
}
