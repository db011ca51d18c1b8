// Package state persists the ExecutionState of a run so an interrupted run
// can resume where it stopped.
//
// The state file is replaced atomically on every save: the new content is
// written to a temporary file in the same directory, flushed, and renamed
// over the old file. A reader therefore sees either the previous state or
// the new one, never a partial write.
package state
