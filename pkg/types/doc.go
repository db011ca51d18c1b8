// Package types defines the core types and interfaces used throughout macsetup.
// This includes the Adapter and ProgressReporter interfaces as well as data
// structures like InstallItem, ExecutionPlan and ExecutionState.
package types
