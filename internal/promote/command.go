package promote

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/promote/internal/execshell"
	"github.com/temirov/promote/internal/plan"
	"github.com/temirov/promote/internal/projectgraph"
	"github.com/temirov/promote/internal/stagedtree"
	"github.com/temirov/promote/internal/ui"
	"github.com/temirov/promote/internal/utils"
	"github.com/temirov/promote/internal/utils/flags"
	pathutils "github.com/temirov/promote/internal/utils/path"
)

const (
	commandUseConstant                     = "run [project]"
	commandShortDescriptionConstant        = "Promote a package to the next lifecycle phase"
	commandLongDescriptionConstant         = "run stages the promotion of a preview package, shows or commits the staged workspace changes, and then runs the queued release commands followed by a dependency install."
	commandExecutionErrorTemplateConstant  = "promotion of %s failed: %w"
	projectArgumentRequiredMessageConstant = "a project identity or --plan is required"
	projectAndPlanConflictMessageConstant  = "a project identity cannot be combined with --plan"
	workspaceResolutionErrorTemplate       = "unable to resolve workspace root: %w"
	treeCreationErrorTemplateConstant      = "unable to open workspace %s: %w"
	commitErrorTemplateConstant            = "unable to commit staged changes: %w"
	renderErrorTemplateConstant            = "unable to render staged changes: %w"
	confirmationErrorTemplateConstant      = "unable to confirm queued commands: %w"
	confirmationPromptTemplateConstant     = "Run %d queued command(s) in %s? [y/N] "
	commandsDeclinedMessageConstant        = "Queued commands skipped; staged changes were committed"
	promotionCommittedMessageConstant      = "Promotion committed"
	logFieldWorkspaceRootConstant          = "workspace_root"
	logFieldPromotionCountConstant         = "promotions"
)

var (
	errProjectArgumentRequired = errors.New(projectArgumentRequiredMessageConstant)
	errProjectAndPlanConflict  = errors.New(projectAndPlanConflictMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// TreeProvider opens the staged tree for a workspace root.
type TreeProvider func(workspaceRoot string) (*stagedtree.Tree, error)

// CommandBuilder assembles the run Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider func() Configuration
	GraphProvider         projectgraph.Provider
	CommandRunner         CommandRunner
	TreeProvider          TreeProvider
	Prompter              ui.ConfirmationPrompter
	Output                io.Writer
	Input                 io.Reader
}

type commandOptions struct {
	workspaceRoot string
	promotions    []Options
	dryRun        bool
	assumeYes     bool
	debugLogging  bool
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.run,
	}

	command.Flags().String(flags.PhaseFlagName, string(PhaseStable), flags.FormatChoiceUsage(string(PhaseStable), PhaseChoices(), flags.PhaseFlagDescription))
	command.Flags().String(flags.PlanFlagName, "", flags.PlanFlagUsage)
	flags.BindWorkspaceFlag(command, flags.WorkspaceFlagValues{}, flags.WorkspaceFlagDefinition{Enabled: true})
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options, optionsError := builder.parseOptions(command, arguments, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLogging)
	tree, treeError := builder.resolveTree(options.workspaceRoot)
	if treeError != nil {
		return fmt.Errorf(treeCreationErrorTemplateConstant, options.workspaceRoot, treeError)
	}
	commandRunner, runnerError := builder.resolveCommandRunner(logger, configuration)
	if runnerError != nil {
		return runnerError
	}

	service := NewService(ServiceDependencies{
		Logger:        logger,
		GraphProvider: builder.GraphProvider,
		CommandRunner: commandRunner,
		Configuration: configuration,
	})

	queues := make([]*SideEffectQueue, 0, len(options.promotions))
	for _, promotion := range options.promotions {
		result, migrationError := service.Migrate(command.Context(), tree, promotion)
		if migrationError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, promotion.Project, migrationError)
		}
		queues = append(queues, result.Queue)
	}

	output := builder.resolveOutput(command)
	if options.dryRun {
		return renderDryRun(output, tree, queues)
	}

	if commitError := tree.Commit(); commitError != nil {
		return fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	logger.Info(promotionCommittedMessageConstant, zap.String(logFieldWorkspaceRootConstant, options.workspaceRoot), zap.Int(logFieldPromotionCountConstant, len(options.promotions)))

	commandCount := 0
	for _, queue := range queues {
		commandCount += len(queue.Commands())
	}
	if !options.assumeYes {
		confirmed, confirmError := builder.resolvePrompter(command, output).Confirm(fmt.Sprintf(confirmationPromptTemplateConstant, commandCount, options.workspaceRoot))
		if confirmError != nil {
			return fmt.Errorf(confirmationErrorTemplateConstant, confirmError)
		}
		if !confirmed {
			logger.Warn(commandsDeclinedMessageConstant, zap.String(logFieldWorkspaceRootConstant, options.workspaceRoot))
			return nil
		}
	}

	for _, queue := range queues {
		if executeError := queue.Execute(command.Context()); executeError != nil {
			return executeError
		}
	}
	return nil
}

func renderDryRun(output io.Writer, tree *stagedtree.Tree, queues []*SideEffectQueue) error {
	changes, changesError := tree.Changes()
	if changesError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, changesError)
	}
	renderer := ui.NewChangeRenderer(output, !color.NoColor)
	if renderError := renderer.RenderChanges(changes); renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}

	commandLines := []string{}
	for _, queue := range queues {
		for _, queuedCommand := range queue.Commands() {
			commandLines = append(commandLines, queuedCommand.CommandLine)
		}
		commandLines = append(commandLines, queue.InstallCommandLine())
	}
	return renderer.RenderCommands(commandLines)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string, configuration Configuration) (commandOptions, error) {
	options := commandOptions{}

	workspaceCandidate := flags.ResolveString(command, flags.WorkspaceFlagName, configuration.WorkspaceRoot)
	workspaceRoot, rootError := pathutils.NewWorkspaceRootResolver().Resolve(workspaceCandidate)
	if rootError != nil {
		return commandOptions{}, fmt.Errorf(workspaceResolutionErrorTemplate, rootError)
	}
	options.workspaceRoot = workspaceRoot

	planPath := flags.ResolveString(command, flags.PlanFlagName, "")
	projectIdentity := ""
	if len(arguments) > 0 {
		projectIdentity = strings.TrimSpace(arguments[0])
	}

	switch {
	case len(planPath) > 0 && len(projectIdentity) > 0:
		return commandOptions{}, errProjectAndPlanConflict
	case len(planPath) > 0:
		loadedPlan, planError := plan.Load(planPath)
		if planError != nil {
			return commandOptions{}, planError
		}
		for _, promotion := range loadedPlan.Promotions {
			phase, phaseError := ParsePhase(promotion.Phase)
			if phaseError != nil {
				return commandOptions{}, phaseError
			}
			options.promotions = append(options.promotions, Options{Project: promotion.Project, Phase: phase})
		}
	case len(projectIdentity) > 0:
		phaseValue, _ := command.Flags().GetString(flags.PhaseFlagName)
		phase, phaseError := ParsePhase(phaseValue)
		if phaseError != nil {
			return commandOptions{}, phaseError
		}
		options.promotions = []Options{{Project: projectIdentity, Phase: phase}}
	default:
		return commandOptions{}, errProjectArgumentRequired
	}

	options.dryRun, _ = command.Flags().GetBool(flags.DryRunFlagName)
	options.assumeYes, _ = command.Flags().GetBool(flags.AssumeYesFlagName)
	if logLevel, available := utils.NewCommandContextAccessor().LogLevel(command.Context()); available {
		options.debugLogging = strings.EqualFold(logLevel, string(utils.LogLevelDebug))
	}
	return options, nil
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveConsoleLogger() *zap.Logger {
	if builder.ConsoleLoggerProvider == nil {
		return nil
	}
	return builder.ConsoleLoggerProvider()
}

func (builder *CommandBuilder) resolveTree(workspaceRoot string) (*stagedtree.Tree, error) {
	if builder.TreeProvider != nil {
		return builder.TreeProvider(workspaceRoot)
	}
	backend, backendError := stagedtree.NewOSBackend(workspaceRoot, stagedtree.OSFileSystem{})
	if backendError != nil {
		return nil, backendError
	}
	return stagedtree.New(backend)
}

func (builder *CommandBuilder) resolveCommandRunner(logger *zap.Logger, configuration Configuration) (CommandRunner, error) {
	if builder.CommandRunner != nil {
		return builder.CommandRunner, nil
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	if consoleLogger := builder.resolveConsoleLogger(); consoleLogger != nil {
		shellExecutor = shellExecutor.WithObserver(ui.NewConsoleCommandEventLogger(consoleLogger))
	}
	return NewShellCommandRunner(shellExecutor, configuration.Sanitize().PackageManager), nil
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, output io.Writer) ui.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	input := builder.Input
	if input == nil {
		input = command.InOrStdin()
	}
	return ui.NewIOConfirmationPrompter(input, output)
}

func (builder *CommandBuilder) resolveOutput(command *cobra.Command) io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return command.OutOrStdout()
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
