package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// Op names an FS operation that Faulty can be told to fail.
type Op string

const (
	OpCreateTemp Op = "createtemp"
	OpWrite      Op = "write"
	OpSync       Op = "sync"
	OpRename     Op = "rename"
	OpSymlink    Op = "symlink"
	OpWriteFile  Op = "writefile"
)

// Faulty wraps another FS and returns Err from the operations listed in
// Fail. It exists so crash and disk-full paths can be exercised in tests.
type Faulty struct {
	types.FS
	Fail map[Op]bool
	Err  error
}

// NewFaulty wraps base, failing ops with err.
func NewFaulty(base types.FS, err error, ops ...Op) *Faulty {
	f := &Faulty{FS: base, Fail: map[Op]bool{}, Err: err}
	for _, op := range ops {
		f.Fail[op] = true
	}
	return f
}

func (f *Faulty) CreateTemp(dir, pattern string) (types.File, error) {
	if f.Fail[OpCreateTemp] {
		return nil, f.Err
	}
	file, err := f.FS.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, parent: f}, nil
}

func (f *Faulty) Rename(oldpath, newpath string) error {
	if f.Fail[OpRename] {
		return f.Err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *Faulty) Symlink(oldname, newname string) error {
	if f.Fail[OpSymlink] {
		return f.Err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *Faulty) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.Fail[OpWriteFile] {
		return f.Err
	}
	return f.FS.WriteFile(name, data, perm)
}

type faultyFile struct {
	types.File
	parent *Faulty
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.parent.Fail[OpWrite] {
		// Simulate a torn write: half the bytes land, then the error.
		n, _ := ff.File.Write(p[:len(p)/2])
		return n, ff.parent.Err
	}
	return ff.File.Write(p)
}

func (ff *faultyFile) Sync() error {
	if ff.parent.Fail[OpSync] {
		return ff.parent.Err
	}
	return ff.File.Sync()
}
