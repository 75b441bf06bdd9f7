package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(testInstance.Context(), "/workspace/config.yaml")
	executionContext = accessor.WithLogLevel(executionContext, "debug")

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, "/workspace/config.yaml", configurationFilePath)

	logLevel, logLevelAvailable := accessor.LogLevel(executionContext)
	require.True(testInstance, logLevelAvailable)
	require.Equal(testInstance, "debug", logLevel)

	_, missingAvailable := accessor.LogLevel(testInstance.Context())
	require.False(testInstance, missingAvailable)
}
