package manager

import (
	"os"

	"github.com/arthur-debert/dotmgr/pkg/engine"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
)

// Generalize folds the stage copy of a dotfile into its generic form in the
// repository. When committing, message names the commit; an empty message
// lets the repository pick one.
func (m *Manager) Generalize(path string, commit bool, message string) error {
	rel, err := paths.NormalizeDotfilePath(path)
	if err != nil {
		return err
	}
	if err := m.generalize(rel); err != nil {
		return err
	}
	if commit {
		return m.commitUpdate(rel, message)
	}
	return nil
}

// GeneralizeAll generalizes every staged dotfile
func (m *Manager) GeneralizeAll(commit bool) error {
	logger := logging.GetLogger("manager.generalize")

	files, err := m.StagedFiles()
	if err != nil {
		return err
	}

	batch := errors.NewBatchError("generalize")
	for _, rel := range files {
		if err := m.generalize(rel); err != nil {
			logger.Error().Err(err).Str("path", rel).Msg("Failed to generalize dotfile")
			batch.Add(rel, err)
			continue
		}
		if commit {
			if err := m.commitUpdate(rel, ""); err != nil {
				logger.Error().Err(err).Str("path", rel).Msg("Failed to commit dotfile")
				batch.Add(rel, err)
			}
		}
	}

	logger.Info().Int("files", len(files)).Int("failed", batch.Len()).Msg("Generalized all dotfiles")
	return batch.ErrOrNil()
}

func (m *Manager) generalize(rel string) error {
	logger := logging.GetLogger("manager.generalize")
	stage := m.paths.StagePath(rel)
	generic := m.paths.RepoPath(rel)

	concrete, err := m.fs.ReadFile(stage)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotTracked, "%s is not on stage, add it with `dotmgr -A %s`", rel, rel).
				WithDetail("path", rel)
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to read %s", stage)
	}

	prior, err := m.readOptional(generic)
	if err != nil {
		return err
	}

	result := engine.Generalize(prior, concrete, m.tags, engine.GeneralizeOptions{Policy: m.policy})

	logger.Debug().
		Str("path", rel).
		Bool("new", prior == nil).
		Int("kept", result.Kept).
		Int("replaced", result.Replaced).
		Int("inserted", result.Inserted).
		Int("deleted", result.Deleted).
		Msg("Merged stage copy")

	if !result.Changed {
		logger.Info().Str("path", rel).Msg("Generic dotfile up to date")
		return nil
	}

	perm := os.FileMode(0644)
	if info, err := m.fs.Stat(stage); err == nil {
		perm = info.Mode().Perm()
	}
	if err := m.writeFile(generic, result.Content, perm); err != nil {
		return err
	}

	logger.Info().Str("path", rel).Str("generic", generic).Msg("Generalized dotfile")
	return nil
}

func (m *Manager) commitUpdate(rel, message string) error {
	repo, err := m.repository()
	if err != nil {
		return err
	}
	return repo.Update(rel, message)
}
