package types

import "context"

// Adapter wraps one external tool. Implementations must be safe to call
// for items already applied; IsApplied is the idempotency check.
type Adapter interface {
	// ToolName is the name the bootstrap manager knows the tool by.
	ToolName() string

	// IsApplied reports whether the item is already present on the host.
	IsApplied(ctx context.Context, item InstallItem) (bool, error)

	// Apply installs the item. A failed Outcome carries a classified Err.
	Apply(ctx context.Context, item InstallItem) Outcome
}

// OutcomeStatus is the per-item result of a run.
type OutcomeStatus string

const (
	StatusInstalled      OutcomeStatus = "installed"
	StatusAlreadyPresent OutcomeStatus = "already_present"
	StatusSkipped        OutcomeStatus = "skipped"
	StatusFailed         OutcomeStatus = "failed"
)

// Outcome describes what happened to one item.
type Outcome struct {
	Identifier Identifier
	Status     OutcomeStatus
	Detail     string
	Err        error
	Attempts   int
}

// Succeeded reports whether the item ended up present on the host.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusInstalled || o.Status == StatusAlreadyPresent
}

// Installed builds a successful outcome for item.
func Installed(item InstallItem, detail string) Outcome {
	return Outcome{Identifier: item.ID(), Status: StatusInstalled, Detail: detail}
}

// AlreadyPresent builds an outcome for an item that needed no work.
func AlreadyPresent(item InstallItem, detail string) Outcome {
	return Outcome{Identifier: item.ID(), Status: StatusAlreadyPresent, Detail: detail}
}

// Skipped builds an outcome for an item that was not attempted.
func Skipped(item InstallItem, detail string) Outcome {
	return Outcome{Identifier: item.ID(), Status: StatusSkipped, Detail: detail}
}

// Failed builds a failed outcome carrying err.
func Failed(item InstallItem, err error) Outcome {
	o := Outcome{Identifier: item.ID(), Status: StatusFailed, Err: err}
	if err != nil {
		o.Detail = err.Error()
	}
	return o
}
