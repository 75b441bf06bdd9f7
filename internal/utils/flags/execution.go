// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun    bool
	AssumeYes bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun    ExecutionFlagDefinition
	AssumeYes ExecutionFlagDefinition
}

// ExecutionFlagValues stores parsed execution flag values.
type ExecutionFlagValues struct {
	DryRun    bool
	AssumeYes bool
}

// DefaultExecutionFlagDefinitions enables the shared dry-run and assume-yes toggles.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:    ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Usage: AssumeYesFlagUsage, Shorthand: AssumeYesFlagShorthand, Enabled: true},
	}
}

// BindExecutionFlags attaches standardized execution toggles to the provided command's local flags.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := &ExecutionFlagValues{DryRun: defaults.DryRun, AssumeYes: defaults.AssumeYes}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	bindToggle(flagSet, &values.DryRun, definitions.DryRun, defaults.DryRun)
	bindToggle(flagSet, &values.AssumeYes, definitions.AssumeYes, defaults.AssumeYes)
	return values
}

func bindToggle(flagSet *pflag.FlagSet, target *bool, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}
	if flagSet.Lookup(definition.Name) != nil {
		return
	}
	AddToggleFlag(flagSet, target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
}
