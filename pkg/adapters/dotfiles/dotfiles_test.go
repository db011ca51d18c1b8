// pkg/adapters/dotfiles/dotfiles_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Test linking, copying, backups and dangling link detection

package dotfiles_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/macsetup/pkg/adapters/dotfiles"
	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/filesystem"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	configDir string
	home      string
}

func setup(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{configDir: filepath.Join(root, "config", "dotfiles"), home: filepath.Join(root, "home")}
	require.NoError(t, os.MkdirAll(e.configDir, 0755))
	require.NoError(t, os.MkdirAll(e.home, 0755))
	return e
}

func (e env) item(t *testing.T, path, content string, mode types.DotfileMode) types.InstallItem {
	t.Helper()
	src := filepath.Join(e.configDir, path)
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
		require.NoError(t, os.WriteFile(src, []byte(content), 0644))
	}
	return types.InstallItem{
		Category: types.CategoryDotfile,
		Name:     path,
		Params: types.DotfileParams{
			Source: src,
			Target: filepath.Join(e.home, path),
			Mode:   mode,
		},
	}
}

func TestSymlink_ApplyThenIsApplied(t *testing.T) {
	e := setup(t)
	a := dotfiles.New(dotfiles.Options{})
	item := e.item(t, ".zshrc", "export X=1\n", types.DotfileSymlink)
	ctx := context.Background()

	ok, err := a.IsApplied(ctx, item)
	require.NoError(t, err)
	assert.False(t, ok)

	out := a.Apply(ctx, item)
	require.Equal(t, types.StatusInstalled, out.Status, out.Detail)

	dest, err := os.Readlink(filepath.Join(e.home, ".zshrc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.configDir, ".zshrc"), dest)

	ok, err = a.IsApplied(ctx, item)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSymlink_BacksUpExistingFile(t *testing.T) {
	e := setup(t)
	target := filepath.Join(e.home, ".gitconfig")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	out := dotfiles.New(dotfiles.Options{}).Apply(context.Background(),
		e.item(t, ".gitconfig", "new", types.DotfileSymlink))
	require.Equal(t, types.StatusInstalled, out.Status)

	backup, err := os.ReadFile(target + ".backup")
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))
	assert.Contains(t, out.Detail, ".gitconfig.backup")
}

func TestSymlink_ReplacesExistingLink(t *testing.T) {
	e := setup(t)
	target := filepath.Join(e.home, ".vimrc")
	require.NoError(t, os.Symlink("/somewhere/else", target))

	a := dotfiles.New(dotfiles.Options{})
	item := e.item(t, ".vimrc", "set nu", types.DotfileSymlink)

	ok, err := a.IsApplied(context.Background(), item)
	require.NoError(t, err)
	assert.False(t, ok, "a link to another file is not applied")

	out := a.Apply(context.Background(), item)
	require.Equal(t, types.StatusInstalled, out.Status)
	assert.NoFileExists(t, target+".backup", "links are replaced, not backed up")
}

func TestCopy(t *testing.T) {
	e := setup(t)
	a := dotfiles.New(dotfiles.Options{})
	item := e.item(t, ".config/starship.toml", "format = '$all'", types.DotfileCopy)
	ctx := context.Background()

	out := a.Apply(ctx, item)
	require.Equal(t, types.StatusInstalled, out.Status, out.Detail)

	target := filepath.Join(e.home, ".config", "starship.toml")
	info, err := os.Lstat(target)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	ok, err := a.IsApplied(ctx, item)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(target, []byte("edited"), 0644))
	ok, err = a.IsApplied(ctx, item)
	require.NoError(t, err)
	assert.False(t, ok, "a diverged copy needs reapplying")
}

func TestApply_MissingSource(t *testing.T) {
	e := setup(t)
	out := dotfiles.New(dotfiles.Options{}).Apply(context.Background(),
		e.item(t, ".missing", "", types.DotfileSymlink))

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Contains(t, out.Err.Error(), "Source file does not exist")
	assert.NotEmpty(t, errors.Remediation(out.Err))
}

func TestApply_SymlinkFailureHasRemediation(t *testing.T) {
	e := setup(t)
	faulty := filesystem.NewFaulty(filesystem.NewOS(), stderrors.New("disk on fire"), filesystem.OpSymlink)

	out := dotfiles.New(dotfiles.Options{FS: faulty}).Apply(context.Background(),
		e.item(t, ".zshrc", "x", types.DotfileSymlink))

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, "permanent", errors.Kind(out.Err))
	assert.Contains(t, errors.Remediation(out.Err), "Failed to create symlink")
}

func TestDetectDangling(t *testing.T) {
	e := setup(t)
	a := dotfiles.New(dotfiles.Options{})
	ctx := context.Background()

	good := e.item(t, ".good", "g", types.DotfileSymlink)
	gone := e.item(t, ".gone", "x", types.DotfileSymlink)
	moved := e.item(t, ".moved", "m", types.DotfileSymlink)
	never := e.item(t, ".never", "n", types.DotfileSymlink)
	for _, it := range []types.InstallItem{good, gone, moved} {
		require.Equal(t, types.StatusInstalled, a.Apply(ctx, it).Status)
	}

	require.NoError(t, os.Remove(filepath.Join(e.configDir, ".gone")))
	require.NoError(t, os.Remove(filepath.Join(e.home, ".moved")))
	require.NoError(t, os.Symlink("/elsewhere", filepath.Join(e.home, ".moved")))

	dangling := a.DetectDangling([]types.InstallItem{good, gone, moved, never})
	require.Len(t, dangling, 2)
	assert.Equal(t, types.Identifier("dotfile:.gone"), dangling[0].Identifier)
	assert.Equal(t, "source file missing", dangling[0].Problem)
	assert.Equal(t, types.Identifier("dotfile:.moved"), dangling[1].Identifier)
	assert.Equal(t, "points to /elsewhere", dangling[1].Problem)
}
