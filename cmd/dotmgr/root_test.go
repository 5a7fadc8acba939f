// cmd/dotmgr/root_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Filesystem (temp dirs), cobra
// PURPOSE: Test command line parsing into actions and end-to-end runs

package dotmgr

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotmgr/pkg/actions"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAction(t *testing.T) {
	tests := []struct {
		name string
		opts options
		args []string
		want actions.Action
	}{
		{
			name: "add",
			opts: options{add: true, commit: true},
			args: []string{".bashrc"},
			want: actions.Add{Path: ".bashrc", Commit: true},
		},
		{
			name: "delete all",
			opts: options{delete: true},
			want: actions.Delete{},
		},
		{
			name: "delete from repository",
			opts: options{delete: true, remove: true, commit: true},
			args: []string{".bashrc"},
			want: actions.Delete{Path: ".bashrc", FromRepository: true, Commit: true},
		},
		{
			name: "generalize with message",
			opts: options{generalize: true, commit: true},
			args: []string{".zshrc", "Add fzf bindings"},
			want: actions.Generalize{Path: ".zshrc", Commit: true, Message: "Add fzf bindings"},
		},
		{
			name: "specialize and link",
			opts: options{specialize: true, link: true},
			want: actions.Specialize{Link: true},
		},
		{
			name: "init by cloning",
			opts: options{init: true},
			args: []string{"git@example.com:me/dotfiles.git"},
			want: actions.Init{URL: "git@example.com:me/dotfiles.git"},
		},
		{
			name: "vcs passthrough",
			opts: options{vcs: true},
			args: []string{"log", "--oneline", "-n", "3"},
			want: actions.RunCommand{Args: []string{"log", "--oneline", "-n", "3"}},
		},
		{
			name: "list",
			opts: options{list: true, format: "yaml"},
			want: actions.List{Format: ui.FormatYAML},
		},
		{
			name: "link alone",
			opts: options{link: true},
			want: actions.Link{},
		},
		{
			name: "sync wraps",
			opts: options{generalize: true, sync: true},
			want: actions.Sync{Action: actions.Generalize{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildAction(tt.opts, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildAction_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
		args []string
		msg  string
	}{
		{"no action", options{}, nil, "no action specified"},
		{"add without path", options{add: true}, nil, "-A requires a path"},
		{"remove without delete", options{specialize: true, remove: true}, nil, "-r cannot be used with -S"},
		{"link with generalize", options{generalize: true, link: true}, nil, "-l cannot be used with -G"},
		{"commit with specialize", options{specialize: true, commit: true}, nil, "-c cannot be used with -S"},
		{"sync with init", options{init: true, sync: true}, nil, "-s cannot be used with -I"},
		{"message for add", options{add: true}, []string{".bashrc", "msg"}, "commit message can only be given to -G"},
		{"args for list", options{list: true}, []string{".bashrc"}, "too many arguments for -L"},
		{"three args for generalize", options{generalize: true}, []string{"a", "b", "c"}, "too many arguments for -G"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildAction(tt.opts, tt.args)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUserInput))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// setupMachine points dotmgr at temp directories for one machine
func setupMachine(t *testing.T) (home, repo, stage string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	home = filepath.Join(root, "home")
	repo = filepath.Join(root, "repo")
	stage = filepath.Join(root, "stage")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "dotmgr"), 0755))
	require.NoError(t, os.MkdirAll(repo, 0755))

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))
	t.Setenv("DOTMGR_CONFIG", "")
	t.Setenv("DOTMGR_REPO", repo)
	t.Setenv("DOTMGR_STAGE", stage)
	t.Setenv("DOTMGR_TAG_CONF", "")
	t.Setenv("DOTMGR_HOSTNAME", "laptop")
	t.Setenv("DOTMGR_POLICY", "")

	require.NoError(t, os.WriteFile(filepath.Join(home, ".config", "dotmgr", "tags.conf"), []byte("laptop: work\n"), 0644))
	return home, repo, stage
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_SpecializeAndLink(t *testing.T) {
	home, repo, stage := setupMachine(t)
	generic := "email = me@work #tags:work\nemail = me@home #tags|*\n"
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".gitconfig"), []byte(generic), 0644))

	_, err := execute(t, "-S", "-l", "--format", "text")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(stage, ".gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, "email = me@work\n", string(content))

	target, err := os.Readlink(filepath.Join(home, ".gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stage, ".gitconfig"), target)
}

func TestRoot_ListYAML(t *testing.T) {
	_, repo, _ := setupMachine(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".vimrc"), []byte("set number\n"), 0644))

	out, err := execute(t, "-L", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "path: .vimrc")
	assert.Contains(t, out, "generic: true")
}

func TestRoot_AddWithoutPathPrintsUsage(t *testing.T) {
	home, _, stage := setupMachine(t)

	out, err := execute(t, "-A")
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
	assert.Contains(t, out, "USAGE:")

	_, statErr := os.Stat(stage)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRoot_ActionsAreExclusive(t *testing.T) {
	setupMachine(t)

	_, err := execute(t, "-A", "-D", ".bashrc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestRoot_InvalidPolicy(t *testing.T) {
	setupMachine(t)

	_, err := execute(t, "-S", "--policy", "sometimes")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotmgr version dev")
}

func TestHelpTopics(t *testing.T) {
	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	for _, name := range []string{"annotations", "policies", "tags", "workflow"} {
		assert.Contains(t, out, "  "+name+"\n")
	}

	out, err = execute(t, "help", "annotations")
	require.NoError(t, err)
	assert.Contains(t, out, "#tags|*")
}
