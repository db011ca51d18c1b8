// Package filesystem provides filesystem implementations for macsetup.
//
// This package contains the OS-backed implementation of the types.FS
// interface used by the state store and the dotfiles adapter. Tests wrap
// it to inject failures at specific operations.
package filesystem
