// Package ui provides helpers for formatting human-readable console output.
//
// It renders staged workspace changes as colored unified diffs, lists the
// side-effect commands a promotion queued, asks for confirmation before they
// run, and translates command lifecycle events into concise console messages
// while detailed telemetry continues to flow through structured loggers.
package ui
