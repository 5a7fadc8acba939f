// Package actions defines what a dotmgr invocation does.
//
// Each action is one variant of a closed set. It checks its own arguments in
// Validate, before anything is touched, and does its work in Run against an
// Env. A path left empty selects the variant that sweeps all dotfiles.
package actions

import (
	"github.com/arthur-debert/dotmgr/pkg/config"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/manager"
	"github.com/arthur-debert/dotmgr/pkg/paths"
	"github.com/arthur-debert/dotmgr/pkg/repository"
	"github.com/arthur-debert/dotmgr/pkg/tags"
	"github.com/arthur-debert/dotmgr/pkg/ui"
)

// Action is one dotmgr operation
type Action interface {
	Name() string
	Validate() error
	Run(env *Env) error
}

// Env holds what actions run against
type Env struct {
	Config     *config.Config
	Paths      *paths.Paths
	Repository repository.Repository
	Printer    *ui.Printer
	FileSystem filesystem.FS

	// TagSource selects the tag configuration read by Manager
	TagSource tags.Source

	manager *manager.Manager
}

// Manager returns the manager for this machine, loading its tags on first use
func (e *Env) Manager() (*manager.Manager, error) {
	if e.manager != nil {
		return e.manager, nil
	}

	set, err := tags.Load(tags.LoadOptions{
		Path:       e.Paths.TagConfigPath(e.TagSource),
		Hostname:   e.Config.Hostname,
		FileSystem: e.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	m, err := manager.New(manager.Options{
		Paths:      e.Paths,
		Tags:       set,
		Repository: e.Repository,
		FileSystem: e.FileSystem,
		Policy:     e.Config.Generalize.Policy,
	})
	if err != nil {
		return nil, err
	}
	e.manager = m
	return m, nil
}

// Execute validates and runs action
func Execute(action Action, env *Env) error {
	logger := logging.GetLogger("actions")

	if err := action.Validate(); err != nil {
		return err
	}

	logger.Debug().Str("action", action.Name()).Msg("Running action")
	if err := action.Run(env); err != nil {
		logger.Debug().Err(err).Str("action", action.Name()).Msg("Action failed")
		return err
	}
	return nil
}

// Add starts tracking a home file
type Add struct {
	Path   string
	Commit bool
}

func (a Add) Name() string { return "add" }

func (a Add) Validate() error {
	if a.Path == "" {
		return errors.New(errors.ErrUserInput, "add requires a path")
	}
	return nil
}

func (a Add) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	if err := m.Add(a.Path, a.Commit); err != nil {
		return err
	}
	env.Printer.Success("Added %s", a.Path)
	return nil
}

// Delete stops tracking one dotfile, or every staged one
type Delete struct {
	Path           string
	FromRepository bool
	Commit         bool
}

func (a Delete) Name() string { return "delete" }

func (a Delete) Validate() error {
	if a.Path == "" && a.FromRepository {
		return errors.New(errors.ErrUserInput, "deleting from the repository requires a path")
	}
	if a.Path == "" && a.Commit {
		return errors.New(errors.ErrUserInput, "committing a deletion requires a path")
	}
	return nil
}

func (a Delete) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	if a.Path == "" {
		if err := m.DeleteAll(); err != nil {
			return err
		}
		env.Printer.Success("Removed all dotfiles from stage")
		return nil
	}
	if err := m.Delete(a.Path, a.FromRepository, a.Commit); err != nil {
		return err
	}
	env.Printer.Success("Deleted %s", a.Path)
	return nil
}

// Generalize folds stage copies back into the repository
type Generalize struct {
	Path    string
	Commit  bool
	Message string
}

func (a Generalize) Name() string { return "generalize" }

func (a Generalize) Validate() error {
	if a.Path == "" && a.Message != "" {
		return errors.New(errors.ErrUserInput, "a commit message requires a path")
	}
	return nil
}

func (a Generalize) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	if a.Path == "" {
		if err := m.GeneralizeAll(a.Commit); err != nil {
			return err
		}
		env.Printer.Success("Generalized all dotfiles")
		return nil
	}
	if err := m.Generalize(a.Path, a.Commit, a.Message); err != nil {
		return err
	}
	env.Printer.Success("Generalized %s", a.Path)
	return nil
}

// Specialize renders generic dotfiles onto the stage
type Specialize struct {
	Path string
	Link bool
}

func (a Specialize) Name() string { return "specialize" }

func (a Specialize) Validate() error { return nil }

func (a Specialize) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	if a.Path == "" {
		if err := m.SpecializeAll(a.Link); err != nil {
			return err
		}
		env.Printer.Success("Specialized all dotfiles")
		return nil
	}
	if err := m.Specialize(a.Path, a.Link); err != nil {
		return err
	}
	env.Printer.Success("Specialized %s", a.Path)
	return nil
}

// Link creates missing home symlinks for every staged dotfile
type Link struct{}

func (a Link) Name() string { return "link" }

func (a Link) Validate() error { return nil }

func (a Link) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	if err := m.LinkAll(); err != nil {
		return err
	}
	env.Printer.Success("Linked all dotfiles")
	return nil
}

// List prints every known dotfile and its state
type List struct {
	Format ui.Format
}

func (a List) Name() string { return "list" }

func (a List) Validate() error {
	switch a.Format {
	case ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatYAML:
		return nil
	}
	return errors.Newf(errors.ErrUserInput, "unsupported list format %s", a.Format)
}

func (a List) Run(env *Env) error {
	m, err := env.Manager()
	if err != nil {
		return err
	}
	entries, err := m.List()
	if err != nil {
		return err
	}
	if err := env.Printer.Entries(entries); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render dotfile list")
	}
	return nil
}
