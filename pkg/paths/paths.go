package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// Environment variable names
const (
	// EnvRepo overrides the dotfile repository location
	EnvRepo = "DOTMGR_REPO"

	// EnvStage overrides the stage directory
	EnvStage = "DOTMGR_STAGE"

	// EnvTagConf overrides the tag configuration path, relative to home
	EnvTagConf = "DOTMGR_TAG_CONF"

	// EnvConfig points at a dotmgr configuration file
	EnvConfig = "DOTMGR_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default locations
const (
	// AppName is the directory name used below the XDG base directories
	AppName = "dotmgr"

	// DefaultRepository is the dotfile repository used when none is configured
	DefaultRepository = "~/repositories/dotfiles"

	// DefaultTagConfig is the tag configuration path relative to home
	DefaultTagConfig = ".config/dotmgr/tags.conf"

	// StageDirName is the stage directory below the XDG data directory
	StageDirName = "stage"

	// GitDirName is skipped when walking the repository
	GitDirName = ".git"
)

// Options holds the configured locations. Empty fields use the defaults.
type Options struct {
	Home       string
	Repository string
	Stage      string
	TagConfig  string
}

// Paths holds resolved absolute locations
type Paths struct {
	home      string
	repo      string
	stage     string
	tagConfig string
}

// New resolves opts into absolute locations
func New(opts Options) (*Paths, error) {
	home := opts.Home
	if home == "" {
		var err error
		home, err = homeDir()
		if err != nil {
			return nil, err
		}
	}

	repo := opts.Repository
	if repo == "" {
		repo = DefaultRepository
	}
	stage := opts.Stage
	if stage == "" {
		stage = DefaultStage()
	}
	tagConfig := opts.TagConfig
	if tagConfig == "" {
		tagConfig = DefaultTagConfig
	}

	p := &Paths{tagConfig: tagConfig}
	for _, loc := range []struct {
		name  string
		value string
		dest  *string
	}{
		{"home", home, &p.home},
		{"repository", expandHome(repo, home), &p.repo},
		{"stage", expandHome(stage, home), &p.stage},
	} {
		abs, err := filepath.Abs(loc.value)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig, "failed to resolve %s directory %q", loc.name, loc.value)
		}
		*loc.dest = abs
	}

	return p, nil
}

// DefaultStage returns the stage directory used when none is configured
func DefaultStage() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, AppName, StageDirName)
}

// Home returns the home directory
func (p *Paths) Home() string {
	return p.home
}

// RepositoryDir returns the dotfile repository root
func (p *Paths) RepositoryDir() string {
	return p.repo
}

// StageDir returns the stage directory
func (p *Paths) StageDir() string {
	return p.stage
}

// TagConfig returns the configured tag configuration path, relative to home
func (p *Paths) TagConfig() string {
	return p.tagConfig
}

// HomePath returns the location of a dotfile in the home directory
func (p *Paths) HomePath(rel string) string {
	return filepath.Join(p.home, rel)
}

// StagePath returns the location of a dotfile on the stage
func (p *Paths) StagePath(rel string) string {
	return filepath.Join(p.stage, rel)
}

// RepoPath returns the location of a dotfile in the repository
func (p *Paths) RepoPath(rel string) string {
	return filepath.Join(p.repo, rel)
}

// TagConfigPath returns the tag configuration file for source
func (p *Paths) TagConfigPath(source tags.Source) string {
	return tags.ConfigPath(source, p.home, p.repo, p.tagConfig)
}

// StageInRepository reports whether the stage lives inside the repository,
// in which case repository walks must skip it
func (p *Paths) StageInRepository() bool {
	return IsInside(p.repo, p.stage)
}

// IsInside reports whether path is dir or lies below it
func IsInside(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func homeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfig, "failed to determine home directory")
	}
	return home, nil
}

// expandHome expands a leading ~ or ~/ to home. ~user forms are left alone.
func expandHome(path, home string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
