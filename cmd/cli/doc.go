// Package cli constructs the promote command-line interface, wiring the Cobra
// command hierarchy, the viper configuration loader with its embedded
// defaults, and the zap loggers handed to the promote command.
package cli
