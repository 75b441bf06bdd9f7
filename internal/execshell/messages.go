package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	changeSubcommandNameConstant       = "change"
	installSubcommandNameConstant      = "install"
	lageSubcommandNameConstant         = "lage"
	generateAPITaskNameConstant        = "generate-api"
	packageFlagConstant                = "--package"
	typeFlagConstant                   = "--type"
	toFlagConstant                     = "--to"
	workspacePackagesLabelConstant     = "all workspace packages"
	unspecifiedChangeTypeLabelConstant = "unspecified"
)

const (
	changeFileStartTemplateConstant             = "Recording %s change file for %s"
	changeFileSuccessTemplateConstant           = "Recorded %s change file for %s"
	changeFileFailureTemplateConstant           = "Failed to record %s change file for %s (exit code %d%s)"
	changeFileExecutionFailureTemplateConstant  = "Unable to record %s change file for %s: %s"
	installStartTemplateConstant                = "Installing workspace dependencies in %s"
	installSuccessTemplateConstant              = "Installed workspace dependencies in %s"
	installFailureTemplateConstant              = "Failed to install workspace dependencies in %s (exit code %d%s)"
	installExecutionFailureTemplateConstant     = "Unable to install workspace dependencies in %s: %s"
	generateAPIStartTemplateConstant            = "Regenerating API report for %s"
	generateAPISuccessTemplateConstant          = "Regenerated API report for %s"
	generateAPIFailureTemplateConstant          = "Failed to regenerate API report for %s (exit code %d%s)"
	generateAPIExecutionFailureTemplateConstant = "Unable to regenerate API report for %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandYarn, CommandNPM, CommandPNPM:
		return formatter.describePackageManagerMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePackageManagerMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(command.Details.Arguments[0]) {
	case changeSubcommandNameConstant:
		return formatter.describeChangeMessage(command, result, failure, stage)
	case installSubcommandNameConstant:
		return formatter.describeInstallMessage(command, result, failure, stage)
	case lageSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, generateAPITaskNameConstant) {
			return formatter.describeGenerateAPIMessage(command, result, failure, stage)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeChangeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	packageName := formatter.ensureValue(findFlagValue(arguments, packageFlagConstant))
	changeType := strings.TrimSpace(findFlagValue(arguments, typeFlagConstant))
	if len(changeType) == 0 {
		changeType = unspecifiedChangeTypeLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(changeFileStartTemplateConstant, changeType, packageName)
	case messageStageSuccess:
		return fmt.Sprintf(changeFileSuccessTemplateConstant, changeType, packageName)
	case messageStageFailure:
		return fmt.Sprintf(changeFileFailureTemplateConstant, changeType, packageName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(changeFileExecutionFailureTemplateConstant, changeType, packageName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeInstallMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(installStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(installSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(installFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(installExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGenerateAPIMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	target := strings.TrimSpace(findFlagValue(command.Details.Arguments, toFlagConstant))
	if len(target) == 0 {
		target = workspacePackagesLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(generateAPIStartTemplateConstant, target)
	case messageStageSuccess:
		return fmt.Sprintf(generateAPISuccessTemplateConstant, target)
	case messageStageFailure:
		return fmt.Sprintf(generateAPIFailureTemplateConstant, target, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(generateAPIExecutionFailureTemplateConstant, target, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, FormatCommandLine(command), workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return arguments[argumentIndex+1]
		}
	}
	return emptyStringConstant
}
