package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem surface used by every saveswap package.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// For filesystems without links, Lstat falls back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// DirLinker is implemented by filesystems that can point one directory
// path at another: a junction on Windows, a symlink elsewhere.
type DirLinker interface {
	SupportsDirLinks() bool
	LinkDir(target, link string) error
}
