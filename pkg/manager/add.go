package manager

import (
	"os"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
)

// Add starts tracking a file of the home directory. The file moves onto the
// stage, a symlink takes its place and the repository receives its generic
// form. Nothing is touched when the file is missing or already tracked.
func (m *Manager) Add(path string, commit bool) error {
	logger := logging.GetLogger("manager.add")

	rel, err := paths.NormalizeDotfilePath(path)
	if err != nil {
		return err
	}
	home := m.paths.HomePath(rel)
	stage := m.paths.StagePath(rel)

	info, err := m.fs.Lstat(home)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrFileNotFound, "%s does not exist", home).
				WithDetail("path", rel)
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to stat %s", home)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if m.isLinked(rel) {
			return errors.Newf(errors.ErrAlreadyTracked, "%s is already managed", rel).
				WithDetail("path", rel)
		}
		return errors.Newf(errors.ErrUserInput, "%s is a symlink", home).
			WithDetail("path", rel)
	}
	if !info.Mode().IsRegular() {
		return errors.Newf(errors.ErrUserInput, "%s is not a regular file", home).
			WithDetail("path", rel)
	}
	if filesystem.Exists(m.fs, stage) {
		return errors.Newf(errors.ErrAlreadyTracked, "%s is already on stage", rel).
			WithDetail("path", rel)
	}

	if err := m.fs.MkdirAll(parentDir(stage), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create stage directory for %s", rel)
	}

	logger.Info().Str("from", home).Str("to", stage).Msg("Moving dotfile onto stage")
	if err := filesystem.Move(m.fs, home, stage); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to move %s to %s", home, stage)
	}

	if err := m.fs.Symlink(stage, home); err != nil {
		logger.Error().
			Err(err).
			Str("link", home).
			Msg("Failed to create symlink, moving dotfile back")
		if rollbackErr := filesystem.Move(m.fs, stage, home); rollbackErr != nil {
			logger.Error().Err(rollbackErr).Msg("Failed to move dotfile back")
			return errors.Wrapf(err, errors.ErrSymlink, "failed to link %s and to restore it from %s", home, stage)
		}
		return errors.Wrapf(err, errors.ErrSymlink, "failed to link %s", home)
	}

	if err := m.generalize(rel); err != nil {
		return err
	}

	if commit {
		repo, err := m.repository()
		if err != nil {
			return err
		}
		if err := repo.Add(rel); err != nil {
			return err
		}
	}

	logger.Info().Str("path", rel).Bool("commit", commit).Msg("Added dotfile")
	return nil
}
