package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CommandName identifies an external executable.
type CommandName string

// Executables invoked by the promotion workflow.
const (
	CommandYarn CommandName = "yarn"
	CommandNPM  CommandName = "npm"
	CommandPNPM CommandName = "pnpm"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant        = "%s exited with code %d"
	commandFailedStandardErrorTemplate        = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %v"
	logFieldCommandNameConstant               = "command_name"
	logFieldCommandArgumentsConstant          = "command_arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "standard_error"
)

var (
	// ErrLoggerNotConfigured indicates that a nil logger was supplied.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that a nil command runner was supplied.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandDetails describes how a command is invoked.
//
// Commands with InheritStandardStreams share the terminal with the operator;
// their standard error is still captured for failure reports.
type CommandDetails struct {
	Arguments              []string
	WorkingDirectory       string
	InheritStandardStreams bool
}

// ShellCommand couples an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes a shell command.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandEventObserver is notified as each command starts and finishes.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called instead of CommandCompleted when no result was produced.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandEventObservers fans events out to every member in order.
type CommandEventObservers []CommandEventObserver

func (observers CommandEventObservers) CommandStarted(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers CommandEventObservers) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

func (observers CommandEventObservers) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

// CommandFailedError reports a command that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure.
func (failure CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Name, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStandardErrorTemplate, failure.Command.Name, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner and logs their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  CommandEventObservers{},
		formatter: CommandMessageFormatter{},
	}, nil
}

// WithObserver returns a copy of the executor that reports lifecycle events to the observer.
func (executor *ShellExecutor) WithObserver(observer CommandEventObserver) *ShellExecutor {
	duplicate := *executor
	if observer == nil {
		observer = CommandEventObservers{}
	}
	duplicate.observer = observer
	return &duplicate
}

// Execute runs the command and converts non-zero exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Info(executor.formatter.BuildStartedMessage(command), commandFields...)
	executor.observer.CommandStarted(command)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, result)
	if result.ExitCode != 0 {
		executor.logger.Warn(
			executor.formatter.BuildFailureMessage(command, result),
			append(commandFields, zap.Int(logFieldExitCodeConstant, result.ExitCode), zap.String(logFieldStandardErrorConstant, result.StandardError))...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: result}
	}

	executor.logger.Info(executor.formatter.BuildSuccessMessage(command), commandFields...)
	return result, nil
}

// ExecuteCommandLine parses a shell-style command line and runs it with inherited standard streams.
func (executor *ShellExecutor) ExecuteCommandLine(executionContext context.Context, commandLine string, workingDirectory string) (ExecutionResult, error) {
	command, parseError := ParseCommandLine(commandLine, workingDirectory)
	if parseError != nil {
		return ExecutionResult{}, parseError
	}
	command.Details.InheritStandardStreams = true
	return executor.Execute(executionContext, command)
}
