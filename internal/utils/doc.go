// Package utils holds the ambient plumbing shared by the promote commands:
// Viper-backed configuration loading, zap logger construction, and the
// values threaded through command contexts.
package utils
