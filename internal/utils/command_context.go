package utils

import "context"

type commandContextKey string

const (
	configurationFilePathContextKey commandContextKey = "configurationFilePath"
	logLevelContextKey              commandContextKey = "logLevel"
)

// CommandContextAccessor stores values resolved by the root command for its subcommands.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file that was loaded, if any.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return withContextString(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file path.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return contextString(executionContext, configurationFilePathContextKey)
}

// WithLogLevel records the effective log level after flag overrides.
func (accessor CommandContextAccessor) WithLogLevel(parentContext context.Context, logLevel string) context.Context {
	return withContextString(parentContext, logLevelContextKey, logLevel)
}

// LogLevel returns the recorded log level.
func (accessor CommandContextAccessor) LogLevel(executionContext context.Context) (string, bool) {
	return contextString(executionContext, logLevelContextKey)
}

func withContextString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func contextString(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	return value, available
}
