package testutil

import (
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/types"
)

// MemoryStore keeps the last saved state in memory. Snapshots holds a copy
// of every save so tests can inspect intermediate states.
type MemoryStore struct {
	State     *types.ExecutionState
	Snapshots []*types.ExecutionState
	// FailOnSave makes the Nth save (1-based) and every later one fail.
	FailOnSave int
	// OnSave runs after each successful save, e.g. to cancel a context
	// mid-run.
	OnSave func(saved *types.ExecutionState)
}

func (m *MemoryStore) Save(s *types.ExecutionState) error {
	if m.FailOnSave > 0 && len(m.Snapshots)+1 >= m.FailOnSave {
		return errors.Fatal(errors.New(errors.ErrInternal, "disk full"), "cannot write state file")
	}
	c := s.Clone()
	m.State = c
	m.Snapshots = append(m.Snapshots, c)
	if m.OnSave != nil {
		m.OnSave(c)
	}
	return nil
}

func (m *MemoryStore) Load() (*types.ExecutionState, error) {
	if m.State == nil {
		return nil, nil
	}
	return m.State.Clone(), nil
}

func (m *MemoryStore) Clear() error {
	m.State = nil
	return nil
}

// Saves returns how many saves succeeded.
func (m *MemoryStore) Saves() int {
	return len(m.Snapshots)
}
