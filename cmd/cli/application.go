package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/promote/internal/promote"
	"github.com/temirov/promote/internal/utils"
	"github.com/temirov/promote/internal/utils/flags"
)

const (
	applicationNameConstant                 = "promote"
	applicationShortDescriptionConstant     = "Command-line interface for package lifecycle promotion"
	applicationLongDescriptionConstant      = "promote moves preview packages of a monorepo workspace to stable, rewriting dependents, the suite package, and workspace configuration before running the release commands."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	environmentPrefixConstant               = "PROMOTE"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	configurationSuitePackageFieldConstant  = "suite_package"
	rootCommandDebugMessageConstant         = "promote invoked without a subcommand"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	defaultConfigurationSearchPathConstant  = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Promote promote.Configuration `mapstructure:"promote"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	promoteBuilder := promote.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		ConfigurationProvider: func() promote.Configuration {
			return application.configuration.Tools.Promote
		},
	}
	promoteCommand, promoteBuildError := promoteBuilder.Build()
	if promoteBuildError == nil {
		cobraCommand.AddCommand(promoteCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and runs it against the process arguments.
func Execute() error {
	application := NewApplication()
	application.rootCommand.SetArgs(flags.NormalizeToggleArguments(os.Args[1:]))
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration
	application.applyLogFlagOverrides(command)

	if loggerError := application.createLoggers(); loggerError != nil {
		return loggerError
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationSuitePackageFieldConstant, application.configuration.Tools.Promote.SuitePackage),
	)

	if command != nil {
		application.propagateCommandContext(command)
	}
	return nil
}

// applyLogFlagOverrides lets explicitly set --log-level and --log-format win over file and environment values.
func (application *Application) applyLogFlagOverrides(command *cobra.Command) {
	overrides := []struct {
		flagName  string
		flagValue string
		target    *string
	}{
		{flagName: logLevelFlagNameConstant, flagValue: application.logLevelFlagValue, target: &application.configuration.Common.LogLevel},
		{flagName: logFormatFlagNameConstant, flagValue: application.logFormatFlagValue, target: &application.configuration.Common.LogFormat},
	}
	for _, override := range overrides {
		if persistentFlagChanged(command, override.flagName) {
			*override.target = override.flagValue
		}
	}
}

func (application *Application) createLoggers() error {
	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger
	return nil
}

func (application *Application) propagateCommandContext(command *cobra.Command) {
	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
	updatedContext = application.commandContextAccessor.WithLogLevel(updatedContext, application.configuration.Common.LogLevel)
	command.SetContext(updatedContext)
	command.Root().SetContext(updatedContext)
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)
	return command.Help()
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := syncLogger(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

// syncLogger ignores the errors terminals return when asked to fsync.
func syncLogger(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	syncError := logger.Sync()
	if errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return nil
	}
	return syncError
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	if flag := command.Flags().Lookup(flagName); flag != nil && flag.Changed {
		return true
	}
	flag := command.Root().PersistentFlags().Lookup(flagName)
	return flag != nil && flag.Changed
}
