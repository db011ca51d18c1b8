package types

import (
	"io/fs"
)

// File is the writable handle returned by FS.CreateTemp.
type File interface {
	Name() string
	Write(p []byte) (int, error)
	Chmod(mode fs.FileMode) error
	Sync() error
	Close() error
}

// FS is the filesystem interface required by the state store and the
// dotfiles adapter.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	CreateTemp(dir, pattern string) (File, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	// SyncDir flushes directory metadata, making a rename durable.
	SyncDir(path string) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
}
