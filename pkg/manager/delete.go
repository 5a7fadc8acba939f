package manager

import (
	"os"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
)

// Delete stops tracking a dotfile on this machine by removing its home
// symlink and stage copy. With fromRepository, or when committing, the
// generic file is removed as well and the removal is committed. Pieces that
// are already gone only produce warnings.
func (m *Manager) Delete(path string, fromRepository, commit bool) error {
	if path == "" {
		if fromRepository {
			return errors.New(errors.ErrUserInput, "deleting from the repository requires a path")
		}
		return errors.New(errors.ErrUserInput, "delete requires a path")
	}

	rel, err := paths.NormalizeDotfilePath(path)
	if err != nil {
		return err
	}
	return m.delete(rel, fromRepository, commit)
}

func (m *Manager) delete(rel string, fromRepository, commit bool) error {
	logger := logging.GetLogger("manager.delete")
	home := m.paths.HomePath(rel)
	stage := m.paths.StagePath(rel)

	switch {
	case m.isLinked(rel):
		if err := m.fs.Remove(home); err != nil {
			return errors.Wrapf(err, errors.ErrSymlink, "failed to remove symlink %s", home)
		}
		logger.Info().Str("path", home).Msg("Removed symlink")
	case filesystem.Exists(m.fs, home):
		logger.Warn().Str("path", home).Msg("Not a symlink to the stage, leaving it in place")
	default:
		logger.Warn().Str("path", home).Msg("Symlink not found")
	}

	if err := m.fs.Remove(stage); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFilesystem, "failed to remove %s", stage)
		}
		logger.Warn().Str("path", rel).Msg("Dotfile is not on stage")
	} else {
		logger.Info().Str("path", stage).Msg("Removed from stage")
		m.pruneEmptyDirs(parentDir(stage), m.paths.StageDir())
	}

	if fromRepository {
		commit = true
	}
	if commit {
		generic := m.paths.RepoPath(rel)
		if err := m.fs.Remove(generic); err != nil {
			if !os.IsNotExist(err) {
				return errors.Wrapf(err, errors.ErrFilesystem, "failed to remove %s", generic)
			}
			logger.Warn().Str("path", rel).Msg("Dotfile is not in the repository")
		} else {
			logger.Info().Str("path", generic).Msg("Removed from repository")
			m.pruneEmptyDirs(parentDir(generic), m.paths.RepositoryDir())
		}

		repo, err := m.repository()
		if err != nil {
			return err
		}
		if err := repo.Remove(rel); err != nil {
			return err
		}
	}

	return nil
}

// DeleteAll removes every staged dotfile and its symlink, then the stage
// directory itself. The repository is not touched.
func (m *Manager) DeleteAll() error {
	logger := logging.GetLogger("manager.delete")

	files, err := m.StagedFiles()
	if err != nil {
		return err
	}

	batch := errors.NewBatchError("delete")
	for _, rel := range files {
		if err := m.delete(rel, false, false); err != nil {
			logger.Error().Err(err).Str("path", rel).Msg("Failed to delete dotfile")
			batch.Add(rel, err)
		}
	}

	if batch.Len() == 0 {
		if err := m.fs.RemoveAll(m.paths.StageDir()); err != nil {
			batch.Add(m.paths.StageDir(), errors.Wrap(err, errors.ErrFilesystem, "failed to remove stage"))
		}
	}

	logger.Info().Int("files", len(files)).Int("failed", batch.Len()).Msg("Cleared stage")
	return batch.ErrOrNil()
}
