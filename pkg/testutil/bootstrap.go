package testutil

import "context"

// MockBootstrapper is a func-field bootstrapper. With no funcs set every
// tool is available.
type MockBootstrapper struct {
	EnsureFunc func(ctx context.Context, name string) bool
	ErrFunc    func(name string) error
	// InstalledTools are reported as installed during the run.
	InstalledTools map[string]bool

	Calls []string
}

func (m *MockBootstrapper) EnsureAvailable(ctx context.Context, name string) bool {
	m.Calls = append(m.Calls, name)
	if m.EnsureFunc == nil {
		return true
	}
	return m.EnsureFunc(ctx, name)
}

func (m *MockBootstrapper) Err(name string) error {
	if m.ErrFunc == nil {
		return nil
	}
	return m.ErrFunc(name)
}

func (m *MockBootstrapper) Installed(name string) bool {
	return m.InstalledTools[name]
}

// Unavailable returns a MockBootstrapper for which the named tools are
// missing, failing with err.
func Unavailable(err error, tools ...string) *MockBootstrapper {
	missing := map[string]bool{}
	for _, t := range tools {
		missing[t] = true
	}
	return &MockBootstrapper{
		EnsureFunc: func(_ context.Context, name string) bool { return !missing[name] },
		ErrFunc: func(name string) error {
			if missing[name] {
				return err
			}
			return nil
		},
	}
}
