package manager

import (
	"bytes"
	"os"

	"github.com/arthur-debert/dotmgr/pkg/engine"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
)

// Specialize renders the generic form of a dotfile for this machine's tags
// onto the stage. With link the home symlink is (re)created, replacing a file
// or foreign symlink in its place.
func (m *Manager) Specialize(path string, link bool) error {
	rel, err := paths.NormalizeDotfilePath(path)
	if err != nil {
		return err
	}
	return m.specialize(rel, link)
}

// SpecializeAll specializes every generic dotfile in the repository
func (m *Manager) SpecializeAll(link bool) error {
	logger := logging.GetLogger("manager.specialize")

	files, err := m.RepositoryFiles()
	if err != nil {
		return err
	}

	batch := errors.NewBatchError("specialize")
	for _, rel := range files {
		if err := m.specialize(rel, link); err != nil {
			logger.Error().Err(err).Str("path", rel).Msg("Failed to specialize dotfile")
			batch.Add(rel, err)
		}
	}

	logger.Info().Int("files", len(files)).Int("failed", batch.Len()).Msg("Specialized all dotfiles")
	return batch.ErrOrNil()
}

func (m *Manager) specialize(rel string, link bool) error {
	logger := logging.GetLogger("manager.specialize")
	generic := m.paths.RepoPath(rel)
	stage := m.paths.StagePath(rel)

	content, err := m.fs.ReadFile(generic)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotTracked, "%s is not in the repository", rel).
				WithDetail("path", rel)
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to read %s", generic)
	}

	result := engine.Specialize(content, m.tags)
	for _, conflict := range result.Conflicts {
		shadowed := make([]string, len(conflict.Shadowed))
		for i, set := range conflict.Shadowed {
			shadowed[i] = set.String()
		}
		logger.Info().
			Str("path", rel).
			Int("line", conflict.Line).
			Str("selected", conflict.Selected.String()).
			Strs("shadowed", shadowed).
			Msg("Several alternatives match, using the first")
	}

	current, err := m.readOptional(stage)
	if err != nil {
		return err
	}
	if current != nil && bytes.Equal(current, result.Content) {
		logger.Debug().Str("path", rel).Msg("Stage copy up to date")
	} else {
		perm := os.FileMode(0644)
		if info, err := m.fs.Stat(generic); err == nil {
			perm = info.Mode().Perm()
		}
		if err := m.writeFile(stage, result.Content, perm); err != nil {
			return err
		}
		logger.Info().
			Str("path", rel).
			Int("lines", result.Lines).
			Int("omitted", result.Omitted).
			Msg("Specialized dotfile")
	}

	if link {
		if _, err := m.link(rel, linkReplace); err != nil {
			return err
		}
	}
	return nil
}
