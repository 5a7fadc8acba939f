package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// osFS implements FS on the real filesystem
type osFS struct{}

// NewOS returns the FS used outside of tests
func NewOS() FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (o *osFS) Lstat(name string) (fs.FileInfo, error)     { return os.Lstat(name) }
func (o *osFS) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }
func (o *osFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (o *osFS) Readlink(name string) (string, error)       { return os.Readlink(name) }
func (o *osFS) Symlink(oldname, newname string) error      { return os.Symlink(oldname, newname) }
func (o *osFS) Rename(oldpath, newpath string) error       { return os.Rename(oldpath, newpath) }
func (o *osFS) Remove(name string) error                   { return os.Remove(name) }
func (o *osFS) RemoveAll(path string) error                { return os.RemoveAll(path) }

func (o *osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile replaces name through a temp file in the same directory, so a
// home symlink never points at a half-written stage file. A symlink at name
// is replaced, not followed.
func (o *osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, name); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
