// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate isolated home, stage and repository directories

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/paths"
	"github.com/stretchr/testify/require"
)

// TestEnvironment provides a home directory, a stage and a repository below
// one temp directory
type TestEnvironment struct {
	Root  string
	Paths *paths.Paths
	FS    filesystem.FS

	t *testing.T
}

// NewTestEnvironment creates a new isolated environment. The stage lives
// outside the repository.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	return newEnvironment(t, "stage")
}

// NewTestEnvironmentWithStageInRepo creates an environment whose stage is a
// directory of the repository
func NewTestEnvironmentWithStageInRepo(t *testing.T) *TestEnvironment {
	t.Helper()
	return newEnvironment(t, filepath.Join("repo", ".stage"))
}

func newEnvironment(t *testing.T, stage string) *TestEnvironment {
	t.Helper()

	// EvalSymlinks keeps symlink targets comparable on systems where the
	// temp dir is itself behind a symlink
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, dir := range []string{"home", "repo"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}

	p, err := paths.New(paths.Options{
		Home:       filepath.Join(root, "home"),
		Repository: filepath.Join(root, "repo"),
		Stage:      filepath.Join(root, stage),
		TagConfig:  paths.DefaultTagConfig,
	})
	require.NoError(t, err)

	return &TestEnvironment{
		Root:  root,
		Paths: p,
		FS:    filesystem.NewOS(),
		t:     t,
	}
}

// WriteHome writes a file below the home directory
func (e *TestEnvironment) WriteHome(rel, content string) string {
	return e.write(e.Paths.HomePath(rel), content)
}

// WriteStage writes a file onto the stage
func (e *TestEnvironment) WriteStage(rel, content string) string {
	return e.write(e.Paths.StagePath(rel), content)
}

// WriteRepo writes a file into the repository
func (e *TestEnvironment) WriteRepo(rel, content string) string {
	return e.write(e.Paths.RepoPath(rel), content)
}

// ReadStage returns the content of a staged file
func (e *TestEnvironment) ReadStage(rel string) string {
	return e.read(e.Paths.StagePath(rel))
}

// ReadRepo returns the content of a generic file
func (e *TestEnvironment) ReadRepo(rel string) string {
	return e.read(e.Paths.RepoPath(rel))
}

// ReadHome returns the content of a home file, following symlinks
func (e *TestEnvironment) ReadHome(rel string) string {
	return e.read(e.Paths.HomePath(rel))
}

// LinkHome creates a symlink in the home directory pointing at target
func (e *TestEnvironment) LinkHome(rel, target string) {
	e.t.Helper()
	home := e.Paths.HomePath(rel)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(home), 0755))
	require.NoError(e.t, os.Symlink(target, home))
}

// AssertLinked fails unless the home path of rel is a symlink to its stage copy
func (e *TestEnvironment) AssertLinked(rel string) {
	e.t.Helper()
	target, err := os.Readlink(e.Paths.HomePath(rel))
	require.NoError(e.t, err, "expected %s to be a symlink", rel)
	require.Equal(e.t, e.Paths.StagePath(rel), target)
}

// Exists reports whether path exists without following symlinks
func (e *TestEnvironment) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (e *TestEnvironment) write(path, content string) string {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *TestEnvironment) read(path string) string {
	e.t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(e.t, err)
	return string(content)
}
