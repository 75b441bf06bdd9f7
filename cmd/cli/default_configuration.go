package cli

import (
	"bytes"
	_ "embed"

	"github.com/temirov/promote/internal/promote"
	"github.com/temirov/promote/internal/utils"
)

const (
	commonLogLevelConfigKeyConstant  = "common.log_level"
	commonLogFormatConfigKeyConstant = "common.log_format"
	promoteConfigurationKeyConstant  = "tools.promote"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the bundled default_config.yaml and its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(embeddedDefaultConfigurationContent), configurationTypeConstant
}

// defaultConfigurationValues seeds viper so that keys missing from every source still decode.
func defaultConfigurationValues() map[string]any {
	defaultValues := promote.DefaultConfigurationValues(promoteConfigurationKeyConstant)
	defaultValues[commonLogLevelConfigKeyConstant] = string(utils.LogLevelInfo)
	defaultValues[commonLogFormatConfigKeyConstant] = string(utils.LogFormatStructured)
	return defaultValues
}
