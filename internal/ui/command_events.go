package ui

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/promote/internal/execshell"
)

const commandStepTemplateConstant = "[%d] %s"

// ConsoleCommandEventLogger prints one numbered line per queued command event.
// Events of the same command share the step number assigned when it started.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
	step      int
}

// NewConsoleCommandEventLogger constructs an event logger writing to the console logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.step++
	eventLogger.emit(zapcore.InfoLevel, eventLogger.formatter.BuildStartedMessage(command))
}

func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode != 0 {
		eventLogger.emit(zapcore.WarnLevel, eventLogger.formatter.BuildFailureMessage(command, result))
		return
	}
	eventLogger.emit(zapcore.InfoLevel, eventLogger.formatter.BuildSuccessMessage(command))
}

func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.emit(zapcore.ErrorLevel, eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, message string) {
	if checkedEntry := eventLogger.logger.Check(level, fmt.Sprintf(commandStepTemplateConstant, eventLogger.step, message)); checkedEntry != nil {
		checkedEntry.Write()
	}
}
