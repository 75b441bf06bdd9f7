package execshell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

const (
	emptyCommandLineMessageConstant         = "command line must not be empty"
	commandLineParseErrorTemplateConstant   = "unable to parse command line %q: %w"
	commandLineMissingProgramTemplateString = "command line %q does not name a program"
)

// ErrEmptyCommandLine indicates that a blank command line was supplied.
var ErrEmptyCommandLine = errors.New(emptyCommandLineMessageConstant)

// ParseCommandLine splits a shell-style command line into a ShellCommand.
//
// Quoting follows POSIX shell rules; no expansion or redirection is performed.
func ParseCommandLine(commandLine string, workingDirectory string) (ShellCommand, error) {
	trimmedCommandLine := strings.TrimSpace(commandLine)
	if len(trimmedCommandLine) == 0 {
		return ShellCommand{}, ErrEmptyCommandLine
	}

	tokens, splitError := shlex.Split(trimmedCommandLine)
	if splitError != nil {
		return ShellCommand{}, fmt.Errorf(commandLineParseErrorTemplateConstant, trimmedCommandLine, splitError)
	}
	if len(tokens) == 0 {
		return ShellCommand{}, fmt.Errorf(commandLineMissingProgramTemplateString, trimmedCommandLine)
	}

	return ShellCommand{
		Name: CommandName(tokens[0]),
		Details: CommandDetails{
			Arguments:        append([]string{}, tokens[1:]...),
			WorkingDirectory: workingDirectory,
		},
	}, nil
}

// FormatCommandLine renders a command as a single space-joined line.
func FormatCommandLine(command ShellCommand) string {
	parts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(parts, commandArgumentsJoinSeparatorConstant)
}
