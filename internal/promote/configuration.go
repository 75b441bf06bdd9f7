package promote

import (
	"strings"

	"github.com/temirov/promote/internal/execshell"
)

const (
	defaultWorkspaceRootConstant         = "."
	defaultPreviewSuffixConstant         = "-preview"
	defaultStableBaselineVersionConstant = "9.0.0-alpha.0"
	defaultSuitePackageConstant          = "@fluentui/react-components"
	defaultDocsitePackageConstant        = "@fluentui/public-docsite-v9"
	defaultDirectConsumerPackageConstant = "@fluentui/vr-tests-react-components"
	defaultDirectConsumerTagConstant     = "vr-tests"
	defaultOwnershipFileConstant         = ".github/CODEOWNERS"
	defaultBasePathAliasTableConstant    = "tsconfig.base.json"
	defaultAllPathAliasTableConstant     = "tsconfig.base.all.json"
	configurationKeySeparatorConstant    = "."

	workspaceRootConfigurationKey          = "workspace_root"
	previewSuffixConfigurationKey          = "preview_suffix"
	stableBaselineVersionConfigurationKey  = "stable_baseline_version"
	suitePackageConfigurationKey           = "suite_package"
	docsitePackagesConfigurationKey        = "docsite_packages"
	directConsumerPackagesConfigurationKey = "direct_consumer_packages"
	directConsumerTagsConfigurationKey     = "direct_consumer_tags"
	ownershipFileConfigurationKey          = "ownership_file"
	packageManagerConfigurationKey         = "package_manager"
	pathAliasTablesConfigurationKey        = "path_alias_tables"
	graphConcurrencyConfigurationKey       = "graph_concurrency"
	pathAliasTablePathConfigurationKey     = "path"
	pathAliasTableRequiredConfigurationKey = "required"
)

// PathAliasTableConfiguration names a path-alias table and whether its absence is fatal.
type PathAliasTableConfiguration struct {
	Path     string `mapstructure:"path"`
	Required bool   `mapstructure:"required"`
}

// Configuration captures persisted settings for the promote command.
type Configuration struct {
	WorkspaceRoot          string                        `mapstructure:"workspace_root"`
	PreviewSuffix          string                        `mapstructure:"preview_suffix"`
	StableBaselineVersion  string                        `mapstructure:"stable_baseline_version"`
	SuitePackage           string                        `mapstructure:"suite_package"`
	DocsitePackages        []string                      `mapstructure:"docsite_packages"`
	DirectConsumerPackages []string                      `mapstructure:"direct_consumer_packages"`
	DirectConsumerTags     []string                      `mapstructure:"direct_consumer_tags"`
	OwnershipFile          string                        `mapstructure:"ownership_file"`
	PackageManager         string                        `mapstructure:"package_manager"`
	PathAliasTables        []PathAliasTableConfiguration `mapstructure:"path_alias_tables"`
	GraphConcurrency       int                           `mapstructure:"graph_concurrency"`
}

// DefaultConfiguration returns baseline configuration values.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkspaceRoot:          defaultWorkspaceRootConstant,
		PreviewSuffix:          defaultPreviewSuffixConstant,
		StableBaselineVersion:  defaultStableBaselineVersionConstant,
		SuitePackage:           defaultSuitePackageConstant,
		DocsitePackages:        []string{defaultDocsitePackageConstant},
		DirectConsumerPackages: []string{defaultDirectConsumerPackageConstant},
		DirectConsumerTags:     []string{defaultDirectConsumerTagConstant},
		OwnershipFile:          defaultOwnershipFileConstant,
		PackageManager:         string(execshell.CommandYarn),
		PathAliasTables: []PathAliasTableConfiguration{
			{Path: defaultBasePathAliasTableConstant, Required: true},
			{Path: defaultAllPathAliasTableConstant, Required: true},
		},
	}
}

// DefaultConfigurationValues returns viper defaults keyed beneath configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	pathAliasTables := make([]map[string]any, 0, len(defaults.PathAliasTables))
	for _, table := range defaults.PathAliasTables {
		pathAliasTables = append(pathAliasTables, map[string]any{
			pathAliasTablePathConfigurationKey:     table.Path,
			pathAliasTableRequiredConfigurationKey: table.Required,
		})
	}

	values := map[string]any{
		workspaceRootConfigurationKey:          defaults.WorkspaceRoot,
		previewSuffixConfigurationKey:          defaults.PreviewSuffix,
		stableBaselineVersionConfigurationKey:  defaults.StableBaselineVersion,
		suitePackageConfigurationKey:           defaults.SuitePackage,
		docsitePackagesConfigurationKey:        defaults.DocsitePackages,
		directConsumerPackagesConfigurationKey: defaults.DirectConsumerPackages,
		directConsumerTagsConfigurationKey:     defaults.DirectConsumerTags,
		ownershipFileConfigurationKey:          defaults.OwnershipFile,
		packageManagerConfigurationKey:         defaults.PackageManager,
		pathAliasTablesConfigurationKey:        pathAliasTables,
		graphConcurrencyConfigurationKey:       defaults.GraphConcurrency,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(configurationPrefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixedValues := make(map[string]any, len(values))
	for key, value := range values {
		prefixedValues[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixedValues
}

// Sanitize trims values, drops blank list entries, and restores defaults for blank required settings.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.WorkspaceRoot = fallbackString(configuration.WorkspaceRoot, defaults.WorkspaceRoot)
	sanitized.PreviewSuffix = fallbackString(configuration.PreviewSuffix, defaults.PreviewSuffix)
	sanitized.StableBaselineVersion = fallbackString(configuration.StableBaselineVersion, defaults.StableBaselineVersion)
	sanitized.SuitePackage = fallbackString(configuration.SuitePackage, defaults.SuitePackage)
	sanitized.OwnershipFile = fallbackString(configuration.OwnershipFile, defaults.OwnershipFile)
	sanitized.PackageManager = fallbackString(configuration.PackageManager, defaults.PackageManager)
	sanitized.DocsitePackages = sanitizeList(configuration.DocsitePackages)
	sanitized.DirectConsumerPackages = sanitizeList(configuration.DirectConsumerPackages)
	sanitized.DirectConsumerTags = sanitizeList(configuration.DirectConsumerTags)

	sanitizedTables := make([]PathAliasTableConfiguration, 0, len(configuration.PathAliasTables))
	for _, table := range configuration.PathAliasTables {
		trimmedPath := strings.TrimSpace(table.Path)
		if len(trimmedPath) == 0 {
			continue
		}
		sanitizedTables = append(sanitizedTables, PathAliasTableConfiguration{Path: trimmedPath, Required: table.Required})
	}
	sanitized.PathAliasTables = sanitizedTables

	if sanitized.GraphConcurrency < 0 {
		sanitized.GraphConcurrency = 0
	}
	return sanitized
}

func fallbackString(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}

func sanitizeList(values []string) []string {
	sanitized := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		if _, duplicate := seen[trimmedValue]; duplicate {
			continue
		}
		seen[trimmedValue] = struct{}{}
		sanitized = append(sanitized, trimmedValue)
	}
	return sanitized
}
