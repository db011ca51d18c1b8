package types

import (
	"slices"
	"time"
)

// RunStatus is the lifecycle status of an ExecutionState.
type RunStatus string

const (
	RunInProgress          RunStatus = "in_progress"
	RunInterrupted         RunStatus = "interrupted"
	RunCompletedWithErrors RunStatus = "completed_with_errors"
	RunCompleted           RunStatus = "completed"
	RunFailed              RunStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case RunInProgress, RunInterrupted, RunCompletedWithErrors, RunCompleted, RunFailed:
		return true
	}
	return false
}

// FailureRecord is the persisted trace of one failed item.
type FailureRecord struct {
	Identifier  Identifier `json:"identifier"`
	ErrorKind   string     `json:"error_kind"`
	Message     string     `json:"message"`
	Remediation string     `json:"remediation,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Attempts    int        `json:"attempts"`
}

// ExecutionState is the durable record of a run. Completed is kept sorted
// and no identifier is ever both completed and failed.
type ExecutionState struct {
	RunID       string          `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ProfileName string          `json:"profile_name"`
	Completed   []Identifier    `json:"completed_identifiers"`
	FailedItems []FailureRecord `json:"failed_items"`
	Status      RunStatus       `json:"status"`
}

// NewExecutionState starts a fresh in-progress state for profile.
func NewExecutionState(runID, profile string, now time.Time) *ExecutionState {
	return &ExecutionState{
		RunID:       runID,
		StartedAt:   now,
		UpdatedAt:   now,
		ProfileName: profile,
		Completed:   []Identifier{},
		FailedItems: []FailureRecord{},
		Status:      RunInProgress,
	}
}

// IsCompleted reports whether id is in the completed set.
func (s *ExecutionState) IsCompleted(id Identifier) bool {
	_, found := slices.BinarySearch(s.Completed, id)
	return found
}

// MarkCompleted adds id to the completed set and drops any stale failure.
func (s *ExecutionState) MarkCompleted(id Identifier) {
	if pos, found := slices.BinarySearch(s.Completed, id); !found {
		s.Completed = slices.Insert(s.Completed, pos, id)
	}
	s.removeFailure(id)
}

// MarkFailed records a failure for rec.Identifier, replacing a previous one.
func (s *ExecutionState) MarkFailed(rec FailureRecord) {
	if pos, found := slices.BinarySearch(s.Completed, rec.Identifier); found {
		s.Completed = slices.Delete(s.Completed, pos, pos+1)
	}
	for i := range s.FailedItems {
		if s.FailedItems[i].Identifier == rec.Identifier {
			s.FailedItems[i] = rec
			return
		}
	}
	s.FailedItems = append(s.FailedItems, rec)
}

// Failure returns the failure recorded for id, if any.
func (s *ExecutionState) Failure(id Identifier) (FailureRecord, bool) {
	for _, rec := range s.FailedItems {
		if rec.Identifier == id {
			return rec, true
		}
	}
	return FailureRecord{}, false
}

func (s *ExecutionState) removeFailure(id Identifier) {
	s.FailedItems = slices.DeleteFunc(s.FailedItems, func(rec FailureRecord) bool {
		return rec.Identifier == id
	})
}

// Normalize sorts and dedups the completed set and removes completed
// identifiers from the failures. Used after loading a state from disk.
func (s *ExecutionState) Normalize() {
	if s.Completed == nil {
		s.Completed = []Identifier{}
	}
	if s.FailedItems == nil {
		s.FailedItems = []FailureRecord{}
	}
	slices.Sort(s.Completed)
	s.Completed = slices.Compact(s.Completed)
	s.FailedItems = slices.DeleteFunc(s.FailedItems, func(rec FailureRecord) bool {
		return s.IsCompleted(rec.Identifier)
	})
}

// Clone returns a deep copy.
func (s *ExecutionState) Clone() *ExecutionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Completed = slices.Clone(s.Completed)
	c.FailedItems = slices.Clone(s.FailedItems)
	return &c
}
