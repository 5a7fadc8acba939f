package manager

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/paths"
)

// skipFunc reports whether a file or directory, given relative to the walk
// root, is left out
type skipFunc func(rel string, isDir bool) bool

// walkFiles returns the relative paths of all regular files below root in
// lexicographic order. A missing root yields no files.
func (m *Manager) walkFiles(root string, skip skipFunc) ([]string, error) {
	var files []string

	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := m.fs.ReadDir(filepath.Join(root, rel))
		if err != nil {
			if rel == "" && os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, errors.ErrFilesystem, "failed to read directory %s", filepath.Join(root, rel))
		}
		for _, entry := range entries {
			child := filepath.Join(rel, entry.Name())
			if skip != nil && skip(child, entry.IsDir()) {
				continue
			}
			if entry.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if entry.Type().IsRegular() {
				files = append(files, child)
			}
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// StagedFiles returns every dotfile on the stage
func (m *Manager) StagedFiles() ([]string, error) {
	return m.walkFiles(m.paths.StageDir(), nil)
}

// RepositoryFiles returns every generic dotfile in the repository. Git
// metadata, the bootstrap tag configuration and a stage kept inside the
// repository are not dotfiles.
func (m *Manager) RepositoryFiles() ([]string, error) {
	tagConfig := filepath.Clean(m.paths.TagConfig())
	stageInRepo := m.paths.StageInRepository()

	return m.walkFiles(m.paths.RepositoryDir(), func(rel string, isDir bool) bool {
		if isDir {
			if rel == paths.GitDirName {
				return true
			}
			return stageInRepo && m.paths.RepoPath(rel) == m.paths.StageDir()
		}
		return rel == tagConfig || rel == paths.GitDirName
	})
}

// pruneEmptyDirs removes empty directories from dir upwards, stopping at root
func (m *Manager) pruneEmptyDirs(dir, root string) {
	for dir != root && paths.IsInside(root, dir) {
		entries, err := m.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := m.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func parentDir(name string) string {
	return filepath.Dir(name)
}
