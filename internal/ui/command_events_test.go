package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/promote/internal/execshell"
	"github.com/temirov/promote/internal/ui"
)

func TestConsoleCommandEventLoggerNumbersQueuedCommands(testInstance *testing.T) {
	changeCommand := execshell.ShellCommand{
		Name:    execshell.CommandYarn,
		Details: execshell.CommandDetails{Arguments: []string{"change", "--message", "feat: release stable", "--type", "minor", "--package", "@proj/react-one"}},
	}
	installCommand := execshell.ShellCommand{
		Name:    execshell.CommandYarn,
		Details: execshell.CommandDetails{Arguments: []string{"install"}, WorkingDirectory: "/workspace"},
	}
	scriptCommand := execshell.ShellCommand{
		Name:    execshell.CommandName("node"),
		Details: execshell.CommandDetails{Arguments: []string{"--frozen-lockfile"}, WorkingDirectory: "/tmp/workspace"},
	}

	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	eventLogger.CommandStarted(changeCommand)
	eventLogger.CommandCompleted(changeCommand, execshell.ExecutionResult{})
	eventLogger.CommandStarted(installCommand)
	eventLogger.CommandCompleted(installCommand, execshell.ExecutionResult{ExitCode: 1, StandardError: "error: lockfile needs update\n"})
	eventLogger.CommandStarted(scriptCommand)
	eventLogger.CommandExecutionFailed(scriptCommand, errors.New("executable file not found"))

	expectedEntries := []struct {
		level   zapcore.Level
		message string
	}{
		{level: zapcore.InfoLevel, message: "[1] Recording minor change file for @proj/react-one"},
		{level: zapcore.InfoLevel, message: "[1] Recorded minor change file for @proj/react-one"},
		{level: zapcore.InfoLevel, message: "[2] Installing workspace dependencies in /workspace"},
		{level: zapcore.WarnLevel, message: "[2] Failed to install workspace dependencies in /workspace (exit code 1: error: lockfile needs update)"},
		{level: zapcore.InfoLevel, message: "[3] Running node --frozen-lockfile (in /tmp/workspace)"},
		{level: zapcore.ErrorLevel, message: "[3] node --frozen-lockfile (in /tmp/workspace) failed: executable file not found"},
	}

	entries := observedLogs.All()
	require.Len(testInstance, entries, len(expectedEntries))
	for entryIndex, expectedEntry := range expectedEntries {
		require.Equal(testInstance, expectedEntry.level, entries[entryIndex].Level)
		require.Equal(testInstance, expectedEntry.message, entries[entryIndex].Message)
	}
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandYarn})
		eventLogger.CommandCompleted(execshell.ShellCommand{Name: execshell.CommandYarn}, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(execshell.ShellCommand{Name: execshell.CommandYarn}, errors.New("boom"))
	})
}
