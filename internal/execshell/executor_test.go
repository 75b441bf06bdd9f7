package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/promote/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testCommandArgumentConstant                  = "--version"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "failure"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testChangeCommandLineConstant                = "yarn change --message 'feat: release stable' --type minor --package @proj/react-one"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	events []string
}

func (eventObserver *recordingEventObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.events = append(eventObserver.events, "started")
}

func (eventObserver *recordingEventObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	eventObserver.events = append(eventObserver.events, "completed")
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.events = append(eventObserver.events, "execution_failed")
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectErrorType  any
		expectedLogCount int
		expectedEvents   []string
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "ok",
				ExitCode:       0,
			},
			expectedLogCount: 2,
			expectedEvents:   []string{"started", "completed"},
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectErrorType:  execshell.CommandFailedError{},
			expectedLogCount: 2,
			expectedEvents:   []string{"started", "completed"},
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
			expectedEvents:   []string{"started", "execution_failed"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}
			eventObserver := &recordingEventObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)
			shellExecutor = shellExecutor.WithObserver(eventObserver)

			command := execshell.ShellCommand{
				Name:    execshell.CommandYarn,
				Details: execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}, WorkingDirectory: testWorkingDirectoryConstant},
			}
			executionResult, executionError := shellExecutor.Execute(context.Background(), command)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			require.Equal(testInstance, testCase.expectedEvents, eventObserver.events)
		})
	}
}

func TestShellExecutorExecuteCommandLineInheritsStreams(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteCommandLine(context.Background(), testChangeCommandLineConstant, "/workspace")
	require.NoError(testInstance, executionError)

	require.Len(testInstance, recordingRunner.recordedCommands, 1)
	recordedCommand := recordingRunner.recordedCommands[0]
	require.Equal(testInstance, execshell.CommandYarn, recordedCommand.Name)
	require.Equal(testInstance, []string{"change", "--message", "feat: release stable", "--type", "minor", "--package", "@proj/react-one"}, recordedCommand.Details.Arguments)
	require.Equal(testInstance, "/workspace", recordedCommand.Details.WorkingDirectory)
	require.True(testInstance, recordedCommand.Details.InheritStandardStreams)
}

func TestShellExecutorExecuteCommandLineRejectsBlankInput(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteCommandLine(context.Background(), "   ", "/workspace")
	require.ErrorIs(testInstance, executionError, execshell.ErrEmptyCommandLine)
	require.Empty(testInstance, recordingRunner.recordedCommands)
}

func TestParseCommandLine(testInstance *testing.T) {
	testCases := []struct {
		name              string
		commandLine       string
		expectedName      execshell.CommandName
		expectedArguments []string
		expectError       bool
	}{
		{
			name:              "single_quoted_message",
			commandLine:       "yarn change --message 'feat: add @proj/react-one to suite' --type minor",
			expectedName:      execshell.CommandYarn,
			expectedArguments: []string{"change", "--message", "feat: add @proj/react-one to suite", "--type", "minor"},
		},
		{
			name:              "bare_program",
			commandLine:       "npm",
			expectedName:      execshell.CommandNPM,
			expectedArguments: []string{},
		},
		{
			name:        "unterminated_quote",
			commandLine: "yarn change --message 'feat",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command, parseError := execshell.ParseCommandLine(testCase.commandLine, testWorkingDirectoryConstant)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedName, command.Name)
			require.Equal(testInstance, testCase.expectedArguments, command.Details.Arguments)
			require.Equal(testInstance, testWorkingDirectoryConstant, command.Details.WorkingDirectory)
		})
	}
}

func TestCommandEventObserversFanOutInOrder(testInstance *testing.T) {
	firstObserver := &recordingEventObserver{}
	secondObserver := &recordingEventObserver{}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{executionError: errors.New("missing yarn")})
	require.NoError(testInstance, creationError)
	executor = executor.WithObserver(execshell.CommandEventObservers{firstObserver, secondObserver})

	_, executionError := executor.Execute(context.Background(), execshell.ShellCommand{Name: execshell.CommandYarn})
	require.ErrorContains(testInstance, executionError, "missing yarn")
	require.Equal(testInstance, []string{"started", "execution_failed"}, firstObserver.events)
	require.Equal(testInstance, firstObserver.events, secondObserver.events)
}
