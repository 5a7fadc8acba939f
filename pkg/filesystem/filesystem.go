package filesystem

import (
	"errors"
	"io/fs"
	"syscall"
)

// FS is the filesystem interface required for dotmgr operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// IsSymlink reports whether name exists and is a symbolic link
func IsSymlink(fsys FS, name string) bool {
	info, err := fsys.Lstat(name)
	if err != nil {
		return false
	}
	return info.Mode()&fs.ModeSymlink != 0
}

// Exists reports whether name exists, without following a final symlink
func Exists(fsys FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// Move renames oldpath to newpath. When the two are on different devices the
// file is copied with its permission bits and oldpath is removed.
func Move(fsys FS, oldpath, newpath string) error {
	err := fsys.Rename(oldpath, newpath)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	info, err := fsys.Lstat(oldpath)
	if err != nil {
		return err
	}
	data, err := fsys.ReadFile(oldpath)
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(newpath, data, info.Mode().Perm()); err != nil {
		return err
	}
	if err := fsys.Remove(oldpath); err != nil {
		_ = fsys.Remove(newpath)
		return err
	}
	return nil
}
