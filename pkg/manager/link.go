package manager

import (
	"os"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
)

// linkMode decides what happens to an existing file in the home directory
type linkMode int

const (
	// linkReplace replaces files and foreign symlinks
	linkReplace linkMode = iota
	// linkMissing only creates links where nothing exists
	linkMissing
)

// isLinked reports whether the home path of rel is a symlink to its stage copy
func (m *Manager) isLinked(rel string) bool {
	home := m.paths.HomePath(rel)
	if !filesystem.IsSymlink(m.fs, home) {
		return false
	}
	target, err := m.fs.Readlink(home)
	return err == nil && target == m.paths.StagePath(rel)
}

// link points the home path of rel at its stage copy. It reports whether a
// link was created.
func (m *Manager) link(rel string, mode linkMode) (bool, error) {
	logger := logging.GetLogger("manager.link")
	home := m.paths.HomePath(rel)
	stage := m.paths.StagePath(rel)

	if m.isLinked(rel) {
		logger.Debug().Str("path", rel).Msg("Symlink already in place")
		return false, nil
	}

	if info, err := m.fs.Lstat(home); err == nil {
		if info.IsDir() {
			return false, errors.Newf(errors.ErrSymlink, "cannot link %s: target is a directory", home).
				WithDetail("path", rel)
		}
		if mode == linkMissing {
			logger.Warn().Str("path", home).Msg("File exists in home directory, not linking")
			return false, nil
		}
		if err := m.fs.Remove(home); err != nil {
			return false, errors.Wrapf(err, errors.ErrSymlink, "failed to replace %s", home)
		}
	} else if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to stat %s", home)
	}

	if err := m.fs.MkdirAll(parentDir(home), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to create parent directory of %s", home)
	}
	if err := m.fs.Symlink(stage, home); err != nil {
		return false, errors.Wrapf(err, errors.ErrSymlink, "failed to create symlink %s", home).
			WithDetail("path", rel)
	}

	logger.Info().Str("link", home).Str("target", stage).Msg("Created symlink")
	return true, nil
}

// LinkAll creates the missing home symlinks of all staged dotfiles. Existing
// files in the home directory are left alone.
func (m *Manager) LinkAll() error {
	logger := logging.GetLogger("manager.link")

	files, err := m.StagedFiles()
	if err != nil {
		return err
	}

	batch := errors.NewBatchError("link")
	created := 0
	for _, rel := range files {
		ok, err := m.link(rel, linkMissing)
		if err != nil {
			logger.Error().Err(err).Str("path", rel).Msg("Failed to link dotfile")
			batch.Add(rel, err)
			continue
		}
		if ok {
			created++
		}
	}

	logger.Info().Int("files", len(files)).Int("created", created).Int("failed", batch.Len()).Msg("Linked all dotfiles")
	return batch.ErrOrNil()
}
