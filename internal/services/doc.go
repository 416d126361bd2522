// Package services provides the shared error taxonomy and context
// annotation helpers used by capture components. Sentinel errors classify
// failures so the session controller can decide between retry, local
// absorption, and terminal error phases.
package services
