// Package testutil provides test doubles for macsetup components.
//
// Key components:
//   - MockRunner: testify mock of runner.Runner for adapter tests
//   - FakeAdapter: scripted types.Adapter that records every call
//   - MockBootstrapper: func-field bootstrap manager
//   - RecordingReporter: captures progress events
//   - MemoryStore: in-memory state store with failure injection
//
// All doubles are safe for use from a single goroutine, which matches how
// the orchestrator drives them.
package testutil
