package promote

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/promote/internal/execshell"
)

const (
	releaseStableCommandTemplateConstant  = "%s change --message 'feat: release stable' --type minor --package %s"
	addToSuiteCommandTemplateConstant     = "%s change --message 'feat: add %s to suite' --type minor --package %s"
	generateAPICommandTemplateConstant    = "%s lage generate-api --to %s"
	releasePreviewCommandTemplateConstant = "%s change --message 'feat: release preview package' --type minor --package %s"
	installArgumentConstant               = "install"
	commandRunnerMissingMessageConstant   = "side-effect command runner not configured"
	sideEffectErrorTemplateConstant       = "side-effect command %q failed: %w"
	installErrorTemplateConstant          = "dependency installation in %s failed: %w"
)

// ErrCommandRunnerNotConfigured indicates that a queue was executed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerMissingMessageConstant)

// SideEffectCommand is an external command deferred until the staged tree is committed.
type SideEffectCommand struct {
	CommandLine      string `yaml:"command_line"`
	WorkingDirectory string `yaml:"working_directory"`
}

// CommandRunner runs deferred commands with inherited standard streams.
type CommandRunner interface {
	RunCommandLine(executionContext context.Context, commandLine string, workingDirectory string) error
	InstallDependencies(executionContext context.Context, workingDirectory string) error
}

// SideEffectQueue holds the ordered commands of one promotion.
type SideEffectQueue struct {
	runner           CommandRunner
	packageManager   string
	workingDirectory string
	commands         []SideEffectCommand
}

// NewSideEffectQueue constructs an empty queue rooted at workingDirectory.
func NewSideEffectQueue(runner CommandRunner, packageManager string, workingDirectory string) *SideEffectQueue {
	return &SideEffectQueue{runner: runner, packageManager: packageManager, workingDirectory: workingDirectory}
}

func (queue *SideEffectQueue) enqueue(commandTemplate string, arguments ...any) {
	queue.commands = append(queue.commands, SideEffectCommand{
		CommandLine:      fmt.Sprintf(commandTemplate, append([]any{queue.packageManager}, arguments...)...),
		WorkingDirectory: queue.workingDirectory,
	})
}

// EnqueueStableRelease records the change file for the stable package.
func (queue *SideEffectQueue) EnqueueStableRelease(identity string) {
	queue.enqueue(releaseStableCommandTemplateConstant, identity)
}

// EnqueueSuiteAddition records the change file for the suite gaining identity.
func (queue *SideEffectQueue) EnqueueSuiteAddition(identity string, suitePackage string) {
	queue.enqueue(addToSuiteCommandTemplateConstant, identity, suitePackage)
}

// EnqueueAPIGeneration records API report regeneration for the suite.
func (queue *SideEffectQueue) EnqueueAPIGeneration(suitePackage string) {
	queue.enqueue(generateAPICommandTemplateConstant, suitePackage)
}

// EnqueuePreviewRelease records the change file for a preview package.
func (queue *SideEffectQueue) EnqueuePreviewRelease(identity string) {
	queue.enqueue(releasePreviewCommandTemplateConstant, identity)
}

// Commands returns a copy of the queued commands in order.
func (queue *SideEffectQueue) Commands() []SideEffectCommand {
	if queue == nil {
		return nil
	}
	return append([]SideEffectCommand{}, queue.commands...)
}

// InstallCommandLine is the command run after the queue drains.
func (queue *SideEffectQueue) InstallCommandLine() string {
	return queue.packageManager + " " + installArgumentConstant
}

// Execute runs every command in order, each to completion, then installs workspace dependencies.
// It must only be called after the staged tree has been committed.
func (queue *SideEffectQueue) Execute(executionContext context.Context) error {
	if queue.runner == nil {
		return ErrCommandRunnerNotConfigured
	}
	for _, command := range queue.commands {
		if runError := queue.runner.RunCommandLine(executionContext, command.CommandLine, command.WorkingDirectory); runError != nil {
			return fmt.Errorf(sideEffectErrorTemplateConstant, command.CommandLine, runError)
		}
	}
	if installError := queue.runner.InstallDependencies(executionContext, queue.workingDirectory); installError != nil {
		return fmt.Errorf(installErrorTemplateConstant, queue.workingDirectory, installError)
	}
	return nil
}

// Deferred binds Execute to executionContext as a zero-argument callback.
func (queue *SideEffectQueue) Deferred(executionContext context.Context) func() error {
	return func() error {
		return queue.Execute(executionContext)
	}
}

// ShellCommandRunner adapts an execshell.ShellExecutor to CommandRunner.
type ShellCommandRunner struct {
	executor       *execshell.ShellExecutor
	packageManager execshell.CommandName
}

// NewShellCommandRunner constructs a runner that installs with packageManager.
func NewShellCommandRunner(executor *execshell.ShellExecutor, packageManager string) *ShellCommandRunner {
	return &ShellCommandRunner{executor: executor, packageManager: execshell.CommandName(packageManager)}
}

// RunCommandLine splits commandLine and runs it in workingDirectory.
func (runner *ShellCommandRunner) RunCommandLine(executionContext context.Context, commandLine string, workingDirectory string) error {
	_, executionError := runner.executor.ExecuteCommandLine(executionContext, commandLine, workingDirectory)
	return executionError
}

// InstallDependencies runs "<package manager> install" in workingDirectory.
func (runner *ShellCommandRunner) InstallDependencies(executionContext context.Context, workingDirectory string) error {
	_, executionError := runner.executor.Execute(executionContext, execshell.ShellCommand{
		Name: runner.packageManager,
		Details: execshell.CommandDetails{
			Arguments:              []string{installArgumentConstant},
			WorkingDirectory:       workingDirectory,
			InheritStandardStreams: true,
		},
	})
	return executionError
}
