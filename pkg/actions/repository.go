package actions

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotmgr/pkg/config"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
)

// Init sets up the dotfile repository, by cloning URL or by creating a new
// one with an initial tag configuration. A config file is written when none
// exists yet.
type Init struct {
	URL string
}

func (a Init) Name() string { return "init" }

func (a Init) Validate() error { return nil }

func (a Init) Run(env *Env) error {
	if a.URL != "" {
		if err := env.Repository.Clone(a.URL); err != nil {
			return err
		}
		env.Printer.Success("Cloned %s into %s", a.URL, env.Repository.Path())
	} else {
		if err := env.Repository.Init(env.Paths.TagConfig(), env.Config.Hostname); err != nil {
			return err
		}
		env.Printer.Success("Initialized repository in %s", env.Repository.Path())
	}

	return seedConfigFile(env)
}

// seedConfigFile writes the effective configuration to the default config
// file unless a config file is already in use or present
func seedConfigFile(env *Env) error {
	logger := logging.GetLogger("actions.init")

	if env.Config.File != "" {
		return nil
	}
	path := config.DefaultFile()
	if filesystem.Exists(env.FileSystem, path) {
		return nil
	}

	content, err := config.Generate(env.Config)
	if err != nil {
		return err
	}
	if err := env.FileSystem.MkdirAll(parentOf(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create directory for %s", path)
	}
	if err := env.FileSystem.WriteFile(path, content, os.FileMode(0644)); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to write %s", path)
	}

	logger.Info().Str("path", path).Msg("Wrote config file")
	env.Printer.Success("Wrote configuration to %s", path)
	return nil
}

// RunCommand passes its arguments to the repository's version control
type RunCommand struct {
	Args []string
}

func (a RunCommand) Name() string { return "vcs" }

func (a RunCommand) Validate() error {
	if len(a.Args) == 0 {
		return errors.New(errors.ErrUserInput, "no version control command given")
	}
	return nil
}

func (a RunCommand) Run(env *Env) error {
	out, err := env.Repository.Execute(a.Args)
	env.Printer.Raw(out)
	return err
}

// Sync wraps an action with a pull before and a push after it. Wrapped
// actions that can commit always do.
type Sync struct {
	Action Action
}

func (a Sync) Name() string { return "sync " + a.Action.Name() }

func (a Sync) Validate() error {
	return withCommit(a.Action).Validate()
}

func (a Sync) Run(env *Env) error {
	if err := env.Repository.Pull(); err != nil {
		return err
	}
	if err := withCommit(a.Action).Run(env); err != nil {
		return err
	}
	return env.Repository.Push()
}

func withCommit(action Action) Action {
	switch a := action.(type) {
	case Add:
		a.Commit = true
		return a
	case Delete:
		a.Commit = a.Path != ""
		return a
	case Generalize:
		a.Commit = true
		return a
	default:
		return action
	}
}

func parentOf(path string) string {
	return filepath.Dir(path)
}
