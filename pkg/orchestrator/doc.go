// Package orchestrator drives an ExecutionPlan to completion.
//
// Items are processed one at a time, in plan order. Before each item the
// run context is checked for cancellation; adapter calls themselves run on
// a context detached from cancellation so an interrupted run never leaves
// a half-finished install behind. After every item the ExecutionState is
// persisted, which is what makes `setup --resume` possible.
//
// A failing item never stops the run: its error is recorded as a
// FailureRecord and processing continues. Only a fatal error (the state
// can't be written) ends the run early.
package orchestrator
