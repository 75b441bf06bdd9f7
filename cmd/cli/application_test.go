package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/cmd/cli"
	"github.com/temirov/promote/internal/promote"
)

func decodeEmbeddedApplicationConfiguration(testInstance testing.TB) cli.ApplicationConfiguration {
	testInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))
	return configuration
}

func TestEmbeddedDefaultsMatchPromoteDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, promote.DefaultConfiguration(), configuration.Tools.Promote.Sanitize())
}

func TestEmbeddedDefaultsAreCopied(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	firstCopy[0] = '#'

	secondCopy, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
	require.Equal(testInstance, "yaml", configurationType)
}
