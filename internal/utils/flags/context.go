package flags

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	// WorkspaceFlagName exposes the shared workspace root flag name.
	WorkspaceFlagName = "workspace"
	// WorkspaceFlagUsage describes the shared workspace root flag purpose.
	WorkspaceFlagUsage = "Workspace root containing the packages to promote"
	// PhaseFlagName exposes the target phase flag name.
	PhaseFlagName = "phase"
	// PhaseFlagDescription describes the target phase flag purpose.
	PhaseFlagDescription = "Lifecycle phase to promote the package to"
	// PlanFlagName exposes the promotion plan flag name.
	PlanFlagName = "plan"
	// PlanFlagUsage describes the promotion plan flag purpose.
	PlanFlagUsage = "YAML plan listing promotions to run in order"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview staged changes and queued commands without writing"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Run queued side-effect commands without confirmation"
)

// WorkspaceFlagDefinition captures configuration for the workspace root flag.
type WorkspaceFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// WorkspaceFlagValues stores the workspace root flag value.
type WorkspaceFlagValues struct {
	Root string
}

// BindWorkspaceFlag attaches the workspace root flag to the provided command.
func BindWorkspaceFlag(command *cobra.Command, defaults WorkspaceFlagValues, definition WorkspaceFlagDefinition) *WorkspaceFlagValues {
	values := defaults
	if command == nil || !definition.Enabled {
		return &values
	}

	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = WorkspaceFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = WorkspaceFlagUsage
	}

	if command.Flags().Lookup(flagName) == nil {
		command.Flags().StringVar(&values.Root, flagName, defaults.Root, flagUsage)
	}
	return &values
}

// ResolveString returns the flag value when it was set explicitly and the fallback otherwise.
func ResolveString(command *cobra.Command, flagName string, fallback string) string {
	if command == nil {
		return fallback
	}
	flag := command.Flags().Lookup(flagName)
	if flag == nil || !flag.Changed {
		return fallback
	}
	return strings.TrimSpace(flag.Value.String())
}
