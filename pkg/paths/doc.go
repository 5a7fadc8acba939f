// Package paths resolves the three locations dotmgr works with: the home
// directory, the stage and the dotfile repository.
//
// Every tracked dotfile is identified by a path relative to all three. The
// same relative path names the home symlink, the concrete copy on the stage
// and the generic file in the repository:
//
//	~/.bashrc  ->  <stage>/.bashrc     (concrete, symlink target)
//	               <repo>/.bashrc      (generic, tag annotated)
//
// # Defaults
//
//   - repository: ~/repositories/dotfiles (DOTMGR_REPO)
//   - stage: $XDG_DATA_HOME/dotmgr/stage (DOTMGR_STAGE)
//   - tag configuration: .config/dotmgr/tags.conf below home (DOTMGR_TAG_CONF)
//
// A leading ~ is expanded in configured locations only. Dotfile paths given
// on the command line are taken literally and must be relative.
package paths
