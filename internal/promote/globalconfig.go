package promote

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/promote/internal/workspace"
)

const (
	requiredTableMissingProblemConstant   = "is required but missing"
	requiredTableMalformedProblemConstant = "is required but malformed"
	suiteManifestMissingProblemConstant   = "has no package manifest"
	optionalTableSkippedMessageConstant   = "Skipping optional path-alias table"
	ownershipRecordMissingMessageConstant = "Ownership record not found"
	ownershipRootMissingMessageConstant   = "Ownership record has no line for package root"
	globalConfigUpdatedMessageConstant    = "Global configuration updated"
	logFieldTablePathConstant             = "table"
	logFieldOwnershipFileConstant         = "ownership_file"
	logFieldUpdatedTableCountConstant     = "updated_tables"
	indexEntryFileNameConstant            = "index.ts"
	currentDirectoryPrefixConstant        = "./"
)

// GlobalConfigUpdater rewrites the ownership record and path-alias tables after a rename.
type GlobalConfigUpdater struct {
	logger          *zap.Logger
	ownershipFile   string
	pathAliasTables []PathAliasTableConfiguration
}

// NewGlobalConfigUpdater constructs an updater from the promote configuration.
func NewGlobalConfigUpdater(logger *zap.Logger, configuration Configuration) *GlobalConfigUpdater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GlobalConfigUpdater{
		logger:          logger,
		ownershipFile:   configuration.OwnershipFile,
		pathAliasTables: append([]PathAliasTableConfiguration{}, configuration.PathAliasTables...),
	}
}

// Preflight verifies that every required table exists and declares compilerOptions.paths.
func (updater *GlobalConfigUpdater) Preflight(tree workspace.Tree) error {
	for _, tableConfiguration := range updater.pathAliasTables {
		if !tableConfiguration.Required {
			continue
		}
		if !tree.Exists(tableConfiguration.Path) {
			return &StructuralError{Subject: tableConfiguration.Path, Problem: requiredTableMissingProblemConstant}
		}
		if _, readError := workspace.ReadPathAliasTable(tree, tableConfiguration.Path); readError != nil {
			return &StructuralError{Subject: tableConfiguration.Path, Problem: requiredTableMalformedProblemConstant, Cause: readError}
		}
	}
	return nil
}

// Update moves the ownership line and alias entries of the renamed package.
func (updater *GlobalConfigUpdater) Update(tree workspace.Tree, rename RenameResult) error {
	if ownershipError := updater.updateOwnership(tree, rename); ownershipError != nil {
		return ownershipError
	}

	updatedTables := 0
	for _, tableConfiguration := range updater.pathAliasTables {
		updated, tableError := updater.updateTable(tree, tableConfiguration, rename)
		if tableError != nil {
			return tableError
		}
		if updated {
			updatedTables++
		}
	}

	updater.logger.Info(
		globalConfigUpdatedMessageConstant,
		zap.String(logFieldNewIdentityConstant, rename.NewIdentity),
		zap.Int(logFieldUpdatedTableCountConstant, updatedTables),
	)
	return nil
}

func (updater *GlobalConfigUpdater) updateOwnership(tree workspace.Tree, rename RenameResult) error {
	if len(updater.ownershipFile) == 0 || !tree.Exists(updater.ownershipFile) {
		updater.logger.Debug(ownershipRecordMissingMessageConstant, zap.String(logFieldOwnershipFileConstant, updater.ownershipFile))
		return nil
	}
	record, readError := workspace.ReadOwnershipRecord(tree, updater.ownershipFile)
	if readError != nil {
		return readError
	}
	if !record.RewriteRoot(rename.OldRoot, rename.NewRoot) {
		updater.logger.Debug(ownershipRootMissingMessageConstant, zap.String(logFieldOwnershipFileConstant, updater.ownershipFile), zap.String(logFieldOldRootConstant, rename.OldRoot))
		return nil
	}
	return record.Save(tree)
}

func (updater *GlobalConfigUpdater) updateTable(tree workspace.Tree, tableConfiguration PathAliasTableConfiguration, rename RenameResult) (bool, error) {
	if !tree.Exists(tableConfiguration.Path) {
		if tableConfiguration.Required {
			return false, &StructuralError{Subject: tableConfiguration.Path, Problem: requiredTableMissingProblemConstant}
		}
		updater.logger.Debug(optionalTableSkippedMessageConstant, zap.String(logFieldTablePathConstant, tableConfiguration.Path))
		return false, nil
	}

	table, readError := workspace.ReadPathAliasTable(tree, tableConfiguration.Path)
	if readError != nil {
		if tableConfiguration.Required {
			return false, &StructuralError{Subject: tableConfiguration.Path, Problem: requiredTableMalformedProblemConstant, Cause: readError}
		}
		updater.logger.Warn(optionalTableSkippedMessageConstant, zap.String(logFieldTablePathConstant, tableConfiguration.Path), zap.Error(readError))
		return false, nil
	}

	entries := []string{path.Join(rename.NewSourceRoot, indexEntryFileNameConstant)}
	if previousEntries, found := table.Entries(rename.OldIdentity); found && len(previousEntries) > 0 {
		entries = make([]string, 0, len(previousEntries))
		for _, entry := range previousEntries {
			entries = append(entries, rebaseAliasEntry(entry, rename.OldRoot, rename.NewRoot))
		}
	}

	if removeError := table.Remove(rename.OldIdentity); removeError != nil {
		return false, removeError
	}
	if setError := table.SetEntries(rename.NewIdentity, entries); setError != nil {
		return false, setError
	}
	return true, table.Save(tree)
}

// rebaseAliasEntry moves an alias entry to newRoot, keeping a leading "./".
func rebaseAliasEntry(entry string, oldRoot string, newRoot string) string {
	if strings.HasPrefix(entry, currentDirectoryPrefixConstant) {
		return currentDirectoryPrefixConstant + rebasePath(strings.TrimPrefix(entry, currentDirectoryPrefixConstant), oldRoot, newRoot)
	}
	return rebasePath(entry, oldRoot, newRoot)
}
