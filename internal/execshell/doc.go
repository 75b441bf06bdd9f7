// Package execshell runs the package-manager commands a promotion queues.
//
// ShellExecutor logs each command's lifecycle and notifies observers,
// OSCommandRunner starts the child process, and ParseCommandLine splits the
// queued shell-style lines.
package execshell
