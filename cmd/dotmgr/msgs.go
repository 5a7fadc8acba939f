package dotmgr

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Sync dotfiles across machines with per-machine variants"
	MsgRootUse         = "dotmgr -A|-D|-G|-I|-S|-V|-L [flags] [path] [message]"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Action flags
	MsgFlagAdd        = "Add a home file: move it to the stage, link it and generalize it"
	MsgFlagDelete     = "Delete a dotfile from the stage and home, all of them without a path"
	MsgFlagGeneralize = "Generalize stage changes into the repository"
	MsgFlagInit       = "Initialize the repository, cloning the URL given as path"
	MsgFlagSpecialize = "Specialize repository dotfiles onto the stage"
	MsgFlagVCS        = "Run a version control command inside the repository"
	MsgFlagList       = "List tracked dotfiles and their state"

	// Modifiers
	MsgFlagBootstrap = "Read tags from the repository's tag configuration"
	MsgFlagLink      = "Link specialized dotfiles into home; alone, link every staged dotfile"
	MsgFlagRemove    = "With -D, also remove the dotfile from the repository and commit"
	MsgFlagCommit    = "Commit the change"
	MsgFlagSync      = "Pull before and push after; implies -c"
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/dotmgr/config.toml)"
	MsgFlagPolicy    = "How lines added on the stage are tagged: shared or isolated"
	MsgFlagFormat    = "Output format: auto, term, text or yaml"

	// Errors
	MsgErrNoAction       = "no action specified"
	MsgErrPathRequired   = "%s requires a path"
	MsgErrTooManyArgs    = "too many arguments for %s"
	MsgErrModifier       = "%s cannot be used with %s"
	MsgErrMessageOnlyGen = "a commit message can only be given to -G"
	MsgErrSetup          = "failed to set up dotmgr: %w"

	// Version output
	MsgVersionFormat = "dotmgr version %s\n  commit: %s\n  built:  %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
