// Package dotfiles links or copies configuration files from the macsetup
// config directory into the home directory.
package dotfiles

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/filesystem"
	"github.com/arthur-debert/macsetup/pkg/logging"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/rs/zerolog"
)

// ToolName is the bootstrap name of the dotfiles adapter. It is built in.
const ToolName = "dotfiles"

// BackupSuffix is appended to a regular file displaced by a dotfile.
const BackupSuffix = ".backup"

// Adapter materializes dotfile items.
type Adapter struct {
	fs     types.FS
	logger zerolog.Logger
}

// Options configures an Adapter.
type Options struct {
	FS     types.FS
	Logger *zerolog.Logger
}

// New creates an Adapter.
func New(opts Options) *Adapter {
	a := &Adapter{fs: opts.FS, logger: logging.GetLogger("dotfiles")}
	if a.fs == nil {
		a.fs = filesystem.NewOS()
	}
	if opts.Logger != nil {
		a.logger = *opts.Logger
	}
	return a
}

func (a *Adapter) ToolName() string {
	return ToolName
}

// IsApplied reports whether the target already is a link to the source
// (symlink mode) or a byte-identical copy of it (copy mode).
func (a *Adapter) IsApplied(_ context.Context, item types.InstallItem) (bool, error) {
	p, err := item.Dotfile()
	if err != nil {
		return false, err
	}

	info, err := a.fs.Lstat(p.Target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if p.Mode == types.DotfileCopy {
		if !info.Mode().IsRegular() {
			return false, nil
		}
		want, err := a.fs.ReadFile(p.Source)
		if err != nil {
			return false, err
		}
		got, err := a.fs.ReadFile(p.Target)
		if err != nil {
			return false, err
		}
		return bytes.Equal(want, got), nil
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return false, nil
	}
	dest, err := a.fs.Readlink(p.Target)
	if err != nil {
		return false, err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(p.Target), dest)
	}
	return filepath.Clean(dest) == filepath.Clean(p.Source), nil
}

// Apply links or copies the source over the target. A regular file already
// at the target is moved to <target>.backup; an existing symlink is replaced.
func (a *Adapter) Apply(_ context.Context, item types.InstallItem) types.Outcome {
	p, err := item.Dotfile()
	if err != nil {
		return types.Failed(item, errors.Permanent(err, "invalid dotfile item", ""))
	}

	srcInfo, err := a.fs.Stat(p.Source)
	if err != nil {
		return types.Failed(item, errors.Permanent(err,
			fmt.Sprintf("Source file does not exist: %s", p.Source),
			fmt.Sprintf("Add the file to %s or remove it from the profile.", filepath.Dir(p.Source))))
	}

	if err := a.fs.MkdirAll(filepath.Dir(p.Target), 0o755); err != nil {
		return types.Failed(item, a.classify(err, p))
	}

	backedUp, err := a.clearTarget(p.Target)
	if err != nil {
		return types.Failed(item, a.classify(err, p))
	}

	var detail string
	if p.Mode == types.DotfileCopy {
		data, err := a.fs.ReadFile(p.Source)
		if err == nil {
			err = a.fs.WriteFile(p.Target, data, srcInfo.Mode().Perm())
		}
		if err != nil {
			return types.Failed(item, a.classify(err, p))
		}
		detail = fmt.Sprintf("copied %s to %s", p.Source, p.Target)
	} else {
		if err := a.fs.Symlink(p.Source, p.Target); err != nil {
			return types.Failed(item, a.classify(err, p))
		}
		detail = fmt.Sprintf("linked %s -> %s", p.Target, p.Source)
	}

	if backedUp != "" {
		detail += fmt.Sprintf(" (previous file saved as %s)", backedUp)
	}
	a.logger.Info().
		Str("source", p.Source).
		Str("target", p.Target).
		Str("mode", string(p.Mode)).
		Str("backup", backedUp).
		Msg("Dotfile applied")
	return types.Installed(item, detail)
}

// clearTarget makes room at target and returns the backup path, if any.
func (a *Adapter) clearTarget(target string) (string, error) {
	info, err := a.fs.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return "", a.fs.Remove(target)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", target)
	}
	backup := target + BackupSuffix
	if err := a.fs.Rename(target, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func (a *Adapter) classify(err error, p types.DotfileParams) error {
	action := "create symlink"
	if p.Mode == types.DotfileCopy {
		action = "copy"
	}
	message := fmt.Sprintf("cannot %s %s", action, p.Target)

	switch {
	case os.IsPermission(err):
		return errors.Permanent(err, message,
			fmt.Sprintf("Permission denied for %s. Check file/directory permissions.", p.Target))
	case os.IsNotExist(err):
		return errors.Permanent(err, message,
			fmt.Sprintf("Source or parent directory not found. Verify %s and %s exist.", p.Source, filepath.Dir(p.Target)))
	case p.Mode == types.DotfileCopy:
		return errors.Permanent(err, message,
			fmt.Sprintf("Failed to copy %s to %s. Check paths and permissions.", p.Source, p.Target))
	default:
		return errors.Permanent(err, message,
			fmt.Sprintf("Failed to create symlink %s -> %s. Check paths and permissions.", p.Target, p.Source))
	}
}
