package execshell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// OSCommandRunner executes commands as child processes.
type OSCommandRunner struct {
	StandardInput  io.Reader
	StandardOutput io.Writer
	StandardError  io.Writer
}

// NewOSCommandRunner constructs a runner whose inheriting commands share the process streams.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{StandardInput: os.Stdin, StandardOutput: os.Stdout, StandardError: os.Stderr}
}

// Run starts the command and waits for it. A non-zero exit is reported through
// ExecutionResult.ExitCode; only failures to start or wait return an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory

	var capturedOutput, capturedError strings.Builder
	process.Stdout = &capturedOutput
	process.Stderr = &capturedError
	if command.Details.InheritStandardStreams {
		process.Stdin = runner.StandardInput
		process.Stdout = writerOrDiscard(runner.StandardOutput)
		process.Stderr = io.MultiWriter(writerOrDiscard(runner.StandardError), &capturedError)
	}

	result := ExecutionResult{}
	runError := process.Run()
	var exitError *exec.ExitError
	switch {
	case errors.As(runError, &exitError):
		result.ExitCode = exitError.ExitCode()
	case runError != nil:
		return ExecutionResult{}, runError
	}
	result.StandardOutput = capturedOutput.String()
	result.StandardError = capturedError.String()
	return result, nil
}

func writerOrDiscard(writer io.Writer) io.Writer {
	if writer == nil {
		return io.Discard
	}
	return writer
}
