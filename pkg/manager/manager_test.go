// pkg/manager/manager_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Filesystem (temp dirs), MockRepository
// PURPOSE: Test dotfile operations across home, stage and repository

package manager_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/arthur-debert/dotmgr/pkg/engine"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/manager"
	"github.com/arthur-debert/dotmgr/pkg/tags"
	"github.com/arthur-debert/dotmgr/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, env *testutil.TestEnvironment, policy engine.Policy) (*manager.Manager, *testutil.MockRepository) {
	t.Helper()
	repo := testutil.NewMockRepository(env.Paths.RepositoryDir())
	m, err := manager.New(manager.Options{
		Paths:      env.Paths,
		Tags:       tags.NewSet("laptop"),
		Repository: repo,
		FileSystem: env.FS,
		Policy:     policy,
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return m, repo
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := manager.New(manager.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestAdd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".config/git/config", "[user]\n\tname = me\n")

	require.NoError(t, m.Add(".config/git/config", false))

	env.AssertLinked(".config/git/config")
	assert.Equal(t, "[user]\n\tname = me\n", env.ReadStage(".config/git/config"))
	assert.Equal(t, "[user]\n\tname = me\n", env.ReadRepo(".config/git/config"))
	assert.Equal(t, "[user]\n\tname = me\n", env.ReadHome(".config/git/config"))
}

func TestAdd_Commit(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteHome(".bashrc", "export EDITOR=vim\n")
	repo.On("Add", ".bashrc").Return(nil).Once()

	require.NoError(t, m.Add(".bashrc", true))
}

func TestAdd_MissingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")

	err := m.Add(".bashrc", true)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	assert.True(t, errors.IsUserError(err))
	assert.False(t, env.Exists(env.Paths.StagePath(".bashrc")))
	assert.False(t, env.Exists(env.Paths.HomePath(".bashrc")))
	assert.False(t, env.Exists(env.Paths.RepoPath(".bashrc")))
}

func TestAdd_AlreadyTracked(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".bashrc", "a\n")
	require.NoError(t, m.Add(".bashrc", false))

	err := m.Add(".bashrc", false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyTracked))
}

func TestAdd_RejectsBadPaths(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")

	for _, path := range []string{"", "/etc/hosts", "~/.bashrc", "../x"} {
		err := m.Add(path, false)
		require.Error(t, err, path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUserInput), path)
	}
}

func TestAdd_ForeignSymlink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	target := env.WriteHome("real", "x\n")
	env.LinkHome(".bashrc", target)

	err := m.Add(".bashrc", false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserInput))
}

func TestAdd_MergesIntoExistingGenericFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, engine.PolicyIsolated)
	env.WriteRepo(".profile", "a\nh=2 #tags:desktop\n")
	env.WriteHome(".profile", "a\nh=1\n")

	require.NoError(t, m.Add(".profile", false))

	assert.Equal(t, "a\nh=1 #tags:laptop\nh=2 #tags!desktop\n", env.ReadRepo(".profile"))
}

func TestAdd_CommitWithExistingGenericFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteRepo(".bashrc", "export EDITOR=vim\n")
	env.WriteHome(".bashrc", "export EDITOR=vim\n")
	repo.On("Add", ".bashrc").Return(nil).Once()

	require.NoError(t, m.Add(".bashrc", true))

	env.AssertLinked(".bashrc")
	assert.Equal(t, "export EDITOR=vim\n", env.ReadRepo(".bashrc"))
}

// crossDeviceFS fails every rename the way a move across mounts does
type crossDeviceFS struct {
	filesystem.FS
}

func (c crossDeviceFS) Rename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func TestAdd_AcrossDevices(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, err := manager.New(manager.Options{
		Paths:      env.Paths,
		Tags:       tags.NewSet("laptop"),
		FileSystem: crossDeviceFS{FS: env.FS},
	})
	require.NoError(t, err)
	env.WriteHome(".bashrc", "export EDITOR=vim\n")
	require.NoError(t, os.Chmod(env.Paths.HomePath(".bashrc"), 0600))

	require.NoError(t, m.Add(".bashrc", false))

	env.AssertLinked(".bashrc")
	assert.Equal(t, "export EDITOR=vim\n", env.ReadStage(".bashrc"))
	assert.Equal(t, "export EDITOR=vim\n", env.ReadRepo(".bashrc"))
	info, err := os.Stat(env.Paths.StagePath(".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGeneralize(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteRepo(".profile", "export EDITOR=vim\nexport HOST=unknown\n")
	env.WriteStage(".profile", "export EDITOR=vim\nexport HOST=laptop\n")
	repo.On("Update", ".profile", "Set host").Return(nil).Once()

	require.NoError(t, m.Generalize(".profile", true, "Set host"))

	assert.Equal(t, "export EDITOR=vim\nexport HOST=laptop #tags:laptop\nexport HOST=unknown #tags|*\n", env.ReadRepo(".profile"))
}

func TestGeneralize_NotTracked(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")

	err := m.Generalize(".profile", true, "")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotTracked))
	assert.True(t, errors.IsUserError(err))
}

func TestGeneralize_CommitWithoutRepository(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, err := manager.New(manager.Options{Paths: env.Paths, Tags: tags.NewSet("laptop")})
	require.NoError(t, err)
	env.WriteStage(".profile", "a\n")

	err = m.Generalize(".profile", true, "")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	// the file itself was still written
	assert.Equal(t, "a\n", env.ReadRepo(".profile"))
}

func TestGeneralizeAll_CollectsFailures(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteStage(".a", "a\n")
	env.WriteStage(".b", "b\n")
	env.WriteStage(".config/c", "c\n")
	// a directory where the generic file of .b belongs makes it fail
	require.NoError(t, os.MkdirAll(env.Paths.RepoPath(".b"), 0755))
	repo.On("Update", ".a", "").Return(nil).Once()
	repo.On("Update", ".config/c", "").Return(nil).Once()

	err := m.GeneralizeAll(true)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBatch))
	var batch *errors.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, []string{".b"}, batch.Paths())
	assert.Equal(t, "a\n", env.ReadRepo(".a"))
	assert.Equal(t, "c\n", env.ReadRepo(".config/c"))
}

func TestSpecialize(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteRepo(".profile", "export EDITOR=vim\nexport HOST=laptop #tags:laptop\nexport HOST=desktop #tags:desktop\n")

	require.NoError(t, m.Specialize(".profile", false))

	assert.Equal(t, "export EDITOR=vim\nexport HOST=laptop\n", env.ReadStage(".profile"))
	assert.False(t, env.Exists(env.Paths.HomePath(".profile")))
}

func TestSpecialize_LinkReplacesExistingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteRepo(".vimrc", "set nu\n")
	env.WriteHome(".vimrc", "old\n")

	require.NoError(t, m.Specialize(".vimrc", true))

	env.AssertLinked(".vimrc")
	assert.Equal(t, "set nu\n", env.ReadHome(".vimrc"))
}

func TestSpecialize_LinkRefusesDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteRepo(".vim", "x\n")
	require.NoError(t, os.MkdirAll(env.Paths.HomePath(".vim"), 0755))

	err := m.Specialize(".vim", true)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlink))
}

func TestSpecialize_NotTracked(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")

	err := m.Specialize(".profile", false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotTracked))
}

func TestSpecializeAll_SkipsRepositoryMetadata(t *testing.T) {
	env := testutil.NewTestEnvironmentWithStageInRepo(t)
	m, _ := newManager(t, env, "")
	env.WriteRepo(".git/config", "[core]\n")
	env.WriteRepo(".config/dotmgr/tags.conf", "laptop: laptop\n")
	env.WriteRepo(".bashrc", "a\nb #tags:desktop\n")
	env.WriteRepo(".config/nvim/init.vim", "set nu #tags:laptop\n")
	env.WriteStage(".old", "stale\n")

	require.NoError(t, m.SpecializeAll(true))

	assert.Equal(t, "a\n", env.ReadStage(".bashrc"))
	assert.Equal(t, "set nu\n", env.ReadStage(".config/nvim/init.vim"))
	env.AssertLinked(".bashrc")
	env.AssertLinked(".config/nvim/init.vim")
	assert.False(t, env.Exists(env.Paths.StagePath(".git/config")))
	assert.False(t, env.Exists(env.Paths.StagePath(".config/dotmgr/tags.conf")))
	assert.False(t, env.Exists(env.Paths.StagePath(".stage/.old")))
}

func TestSpecialize_IsIdempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteRepo(".profile", "a\nb #tags:laptop\n")

	require.NoError(t, m.Specialize(".profile", false))
	first := env.ReadStage(".profile")
	require.NoError(t, m.Specialize(".profile", false))

	assert.Equal(t, first, env.ReadStage(".profile"))
}

func TestRoundTrip_SpecializeThenGeneralize(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	generic := "export EDITOR=vim\nexport HOST=laptop #tags:laptop\nexport HOST=desktop #tags:desktop\n"
	env.WriteRepo(".profile", generic)

	require.NoError(t, m.Specialize(".profile", false))
	require.NoError(t, m.Generalize(".profile", false, ""))

	assert.Equal(t, generic, env.ReadRepo(".profile"))
}

func TestDelete(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".config/git/config", "x\n")
	require.NoError(t, m.Add(".config/git/config", false))

	require.NoError(t, m.Delete(".config/git/config", false, false))

	assert.False(t, env.Exists(env.Paths.HomePath(".config/git/config")))
	assert.False(t, env.Exists(env.Paths.StagePath(".config/git/config")))
	assert.False(t, env.Exists(env.Paths.StagePath(".config")), "empty stage directories are pruned")
	assert.Equal(t, "x\n", env.ReadRepo(".config/git/config"))
}

func TestDelete_FromRepository(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteHome(".bashrc", "x\n")
	require.NoError(t, m.Add(".bashrc", false))
	repo.On("Remove", ".bashrc").Return(nil).Once()

	require.NoError(t, m.Delete(".bashrc", true, false))

	assert.False(t, env.Exists(env.Paths.RepoPath(".bashrc")))
}

func TestDelete_Commit(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	env.WriteHome(".bashrc", "x\n")
	require.NoError(t, m.Add(".bashrc", false))
	repo.On("Remove", ".bashrc").Return(nil).Once()

	require.NoError(t, m.Delete(".bashrc", false, true))

	assert.False(t, env.Exists(env.Paths.RepoPath(".bashrc")))
}

func TestDelete_MissingPiecesAreNotErrors(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, repo := newManager(t, env, "")
	repo.On("Remove", ".nothing").Return(nil).Once()

	assert.NoError(t, m.Delete(".nothing", true, false))
}

func TestDelete_LeavesRegularHomeFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".bashrc", "mine\n")
	env.WriteStage(".bashrc", "staged\n")

	require.NoError(t, m.Delete(".bashrc", false, false))

	assert.Equal(t, "mine\n", env.ReadHome(".bashrc"))
	assert.False(t, env.Exists(env.Paths.StagePath(".bashrc")))
}

func TestDelete_FromRepositoryRequiresPath(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")

	err := m.Delete("", true, false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserInput))
}

func TestDeleteAll(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".a", "a\n")
	env.WriteHome(".config/b", "b\n")
	require.NoError(t, m.Add(".a", false))
	require.NoError(t, m.Add(".config/b", false))

	require.NoError(t, m.DeleteAll())

	assert.False(t, env.Exists(env.Paths.HomePath(".a")))
	assert.False(t, env.Exists(env.Paths.HomePath(".config/b")))
	assert.False(t, env.Exists(env.Paths.StageDir()))
	assert.Equal(t, "a\n", env.ReadRepo(".a"))
}

func TestLinkAll(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteStage(".a", "a\n")
	env.WriteStage(".config/b", "b\n")
	env.WriteHome(".config/b", "keep\n")

	require.NoError(t, m.LinkAll())

	env.AssertLinked(".a")
	assert.Equal(t, "keep\n", env.ReadHome(".config/b"))
}

func TestList(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	env.WriteHome(".linked", "x\n")
	require.NoError(t, m.Add(".linked", false))
	env.WriteRepo(".generic-only", "y\n")
	env.WriteStage(".stage-only", "z\n")
	env.WriteRepo(".config/dotmgr/tags.conf", "laptop: laptop\n")

	entries, err := m.List()
	require.NoError(t, err)

	assert.Equal(t, []manager.Entry{
		{Path: ".generic-only", Generic: true},
		{Path: ".linked", Staged: true, Linked: true, Generic: true},
		{Path: ".stage-only", Staged: true},
	}, entries)
}

func TestRepositoryFiles_MissingRepository(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m, _ := newManager(t, env, "")
	require.NoError(t, os.RemoveAll(filepath.Join(env.Root, "repo")))

	files, err := m.RepositoryFiles()

	require.NoError(t, err)
	assert.Empty(t, files)
}
