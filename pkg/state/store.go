package state

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/filesystem"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/rs/zerolog"
)

// FileName is the state file's name inside the config directory.
const FileName = ".state.json"

const filePerm fs.FileMode = 0o644

// Store reads and writes one state file.
type Store struct {
	path   string
	fs     types.FS
	logger zerolog.Logger
}

// Options configures a Store.
type Options struct {
	// FS defaults to the OS filesystem.
	FS     types.FS
	Logger *zerolog.Logger
}

// New returns a store for <configDir>/.state.json.
func New(configDir string, opts Options) *Store {
	s := &Store{
		path:   filepath.Join(configDir, FileName),
		fs:     opts.FS,
		logger: logging.GetLogger("state"),
	}
	if s.fs == nil {
		s.fs = filesystem.NewOS()
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}
	return s
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted state, or nil when there is nothing usable to
// resume from. A corrupt file is logged and treated as absent.
func (s *Store) Load() (*types.ExecutionState, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Cannot read state file, starting fresh")
		return nil, nil
	}

	var st types.ExecutionState
	if err := json.Unmarshal(data, &st); err != nil {
		s.warnCorrupt(errors.Wrap(err, errors.ErrStateCorruption, "state file is not valid JSON"))
		return nil, nil
	}
	if err := validate(&st); err != nil {
		s.warnCorrupt(err)
		return nil, nil
	}
	st.Normalize()

	s.logger.Debug().
		Str("runID", st.RunID).
		Str("profile", st.ProfileName).
		Int("completed", len(st.Completed)).
		Int("failed", len(st.FailedItems)).
		Msg("Loaded state")
	return &st, nil
}

func (s *Store) warnCorrupt(err error) {
	s.logger.Warn().Err(err).Str("path", s.path).Msg("Ignoring corrupt state file")
}

func validate(st *types.ExecutionState) error {
	switch {
	case st.RunID == "":
		return errors.New(errors.ErrStateCorruption, "state file has no run_id")
	case st.ProfileName == "":
		return errors.New(errors.ErrStateCorruption, "state file has no profile_name")
	case !st.Status.Valid():
		return errors.Newf(errors.ErrStateCorruption, "state file has unknown status %q", st.Status)
	}
	return nil
}

// Save atomically replaces the state file. Any failure is fatal to the
// run: without durable state, resume guarantees no longer hold.
func (s *Store) Save(st *types.ExecutionState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Fatal(err, "cannot encode state")
	}
	if err := s.writeAtomic(data); err != nil {
		return errors.Fatal(err, "cannot write state file").WithDetail("path", s.path)
	}
	return nil
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := s.fs.CreateTemp(dir, FileName+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		return err
	}
	committed = true

	if err := s.fs.SyncDir(dir); err != nil {
		// The rename already happened; only crash durability is weakened.
		s.logger.Debug().Err(err).Str("dir", dir).Msg("Directory sync failed")
	}
	return nil
}

// Clear deletes the state file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrInternal, "cannot remove state file %s", s.path)
	}
	return nil
}
