package repository

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// GitBinary is the executable used for all repository operations
var GitBinary = "git"

// Git is a Repository backed by a git working tree
type Git struct {
	path string
}

// NewGit returns a Git repository rooted at path. The directory does not need
// to exist until Clone or Init is called.
func NewGit(path string) *Git {
	return &Git{path: path}
}

// Path returns the repository root
func (g *Git) Path() string {
	return g.path
}

// Clone clones url into the repository root
func (g *Git) Clone(url string) error {
	logger := logging.GetLogger("repository")
	logger.Info().Str("url", url).Str("path", g.path).Msg("Cloning repository")

	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create parent of %s", g.path)
	}
	if out, err := runGit("", "clone", url, g.path); err != nil {
		return gitError(err, out, "clone %s", url)
	}
	return nil
}

// Init creates the repository if needed and commits an initial tag
// configuration
func (g *Git) Init(tagConfigRel, hostname string) error {
	logger := logging.GetLogger("repository")

	if err := os.MkdirAll(g.path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create repository directory %s", g.path)
	}

	if !g.isWorkTree() {
		logger.Info().Str("path", g.path).Msg("Initializing repository")
		if out, err := runGit(g.path, "init"); err != nil {
			return gitError(err, out, "init")
		}
	}

	full := filepath.Join(g.path, tagConfigRel)
	if _, err := os.Stat(full); err == nil {
		logger.Debug().Str("path", full).Msg("Tag configuration already exists")
		return nil
	}

	logger.Info().Str("path", full).Msg("Creating initial tag configuration")
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create directory for %s", full)
	}
	if err := os.WriteFile(full, tags.DefaultContent(hostname), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to write %s", full)
	}
	return g.Add(tagConfigRel)
}

// Add commits a new dotfile. A dotfile already committed with the same
// content, as when a second machine adopts it, is left alone.
func (g *Git) Add(path string) error {
	return g.commitIfChanged(path, "Add "+path)
}

// Remove commits the removal of a dotfile
func (g *Git) Remove(path string) error {
	logger := logging.GetLogger("repository")
	logger.Info().Str("path", path).Msg("Committing removal")

	if out, err := runGit(g.path, "rm", "--cached", "--ignore-unmatch", "--quiet", "--", path); err != nil {
		return gitError(err, out, "rm %s", path)
	}
	changed, err := g.changed(path)
	if err != nil || !changed {
		return err
	}
	if out, err := runGit(g.path, "commit", "--quiet", "-m", "Remove "+path, "--", path); err != nil {
		return gitError(err, out, "commit removal of %s", path)
	}
	return nil
}

// Update commits changes to a dotfile
func (g *Git) Update(path, message string) error {
	if message == "" {
		message = "Update " + path
	}
	return g.commitIfChanged(path, message)
}

// Pull fetches and merges upstream changes
func (g *Git) Pull() error {
	logger := logging.GetLogger("repository")
	logger.Info().Msg("Pulling from upstream")
	if out, err := runGit(g.path, "pull"); err != nil {
		return gitError(err, out, "pull")
	}
	return nil
}

// Push publishes local commits
func (g *Git) Push() error {
	logger := logging.GetLogger("repository")
	logger.Info().Msg("Pushing to upstream")
	if out, err := runGit(g.path, "push"); err != nil {
		return gitError(err, out, "push")
	}
	return nil
}

// Execute runs git with args in the repository
func (g *Git) Execute(args []string) (string, error) {
	out, err := runGit(g.path, args...)
	if err != nil {
		return out, gitError(err, out, "%s", strings.Join(args, " "))
	}
	return out, nil
}

// changed reports whether git sees any change to path in the index or the
// work tree
func (g *Git) changed(path string) (bool, error) {
	status, err := runGit(g.path, "status", "--porcelain", "--", path)
	if err != nil {
		return false, gitError(err, status, "status %s", path)
	}
	return status != "", nil
}

func (g *Git) commitIfChanged(path, message string) error {
	logger := logging.GetLogger("repository")

	changed, err := g.changed(path)
	if err != nil {
		return err
	}
	if !changed {
		logger.Debug().Str("path", path).Msg("Dotfile unchanged, nothing to commit")
		return nil
	}

	logger.Info().Str("path", path).Str("message", message).Msg("Committing dotfile")

	if out, err := runGit(g.path, "add", "--", path); err != nil {
		return gitError(err, out, "add %s", path)
	}
	if out, err := runGit(g.path, "commit", "--quiet", "-m", message, "--", path); err != nil {
		return gitError(err, out, "commit %s", path)
	}
	return nil
}

// isWorkTree reports whether the repository root is the top of a git work
// tree, not merely somewhere inside one
func (g *Git) isWorkTree() bool {
	out, err := runGit(g.path, "rev-parse", "--show-toplevel")
	if err != nil {
		return false
	}
	top, err := filepath.EvalSymlinks(out)
	if err != nil {
		return false
	}
	root, err := filepath.EvalSymlinks(g.path)
	if err != nil {
		return false
	}
	return top == root
}

// runGit executes git in dir and returns its trimmed combined output
func runGit(dir string, args ...string) (string, error) {
	logging.LogCommand(logging.GetLogger("repository"), GitBinary, args)

	cmd := exec.Command(GitBinary, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

func gitError(err error, output, format string, args ...interface{}) error {
	wrapped := errors.Wrapf(err, errors.ErrRepository, "git "+format+" failed", args...)
	if output != "" {
		wrapped = wrapped.WithDetail("output", output)
	}
	return wrapped
}
