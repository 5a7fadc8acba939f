// Package manager keeps the home directory, the stage and the dotfile
// repository in step.
//
// A tracked dotfile exists in three forms that share one relative path: a
// symlink in the home directory, the concrete file on the stage it points to,
// and the generic file in the repository. The manager moves content between
// them with the engine package and asks the repository to commit when told
// to. Operations without a path sweep every tracked file in lexicographic
// order; a failing file does not stop the sweep and all failures are returned
// together as a batch error.
package manager

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/dotmgr/pkg/engine"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/paths"
	"github.com/arthur-debert/dotmgr/pkg/repository"
	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// Options holds the collaborators of a Manager
type Options struct {
	Paths      *paths.Paths
	Tags       tags.Set
	Repository repository.Repository // required only when committing
	FileSystem filesystem.FS         // defaults to the OS filesystem
	Policy     engine.Policy
}

// Manager performs dotfile operations for one machine
type Manager struct {
	paths  *paths.Paths
	tags   tags.Set
	repo   repository.Repository
	fs     filesystem.FS
	policy engine.Policy
}

// New creates a Manager
func New(opts Options) (*Manager, error) {
	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInternal, "manager requires paths")
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	policy := opts.Policy
	if policy == "" {
		policy = engine.PolicyShared
	}

	return &Manager{
		paths:  opts.Paths,
		tags:   opts.Tags,
		repo:   opts.Repository,
		fs:     fsys,
		policy: policy,
	}, nil
}

// Tags returns the tags of this machine
func (m *Manager) Tags() tags.Set {
	return m.tags
}

// Paths returns the resolved locations
func (m *Manager) Paths() *paths.Paths {
	return m.paths
}

func (m *Manager) repository() (repository.Repository, error) {
	if m.repo == nil {
		return nil, errors.New(errors.ErrInternal, "no repository configured for committing")
	}
	return m.repo, nil
}

// writeFile writes data to name, creating parent directories, and keeps the
// permissions of an existing file
func (m *Manager) writeFile(name string, data []byte, perm fs.FileMode) error {
	if info, err := m.fs.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	if err := m.fs.MkdirAll(parentDir(name), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create directory for %s", name)
	}
	if err := m.fs.WriteFile(name, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to write %s", name)
	}
	return nil
}

// readOptional reads name, returning nil content when it does not exist
func (m *Manager) readOptional(name string) ([]byte, error) {
	content, err := m.fs.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to read %s", name)
	}
	return content, nil
}
