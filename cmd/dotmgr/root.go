package dotmgr

import (
	"embed"
	"fmt"
	"os"

	"github.com/arthur-debert/dotmgr/internal/version"
	"github.com/arthur-debert/dotmgr/pkg/actions"
	"github.com/arthur-debert/dotmgr/pkg/cobrax/topics"
	"github.com/arthur-debert/dotmgr/pkg/config"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
	"github.com/arthur-debert/dotmgr/pkg/repository"
	"github.com/arthur-debert/dotmgr/pkg/tags"
	"github.com/arthur-debert/dotmgr/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the parsed command line flags
type options struct {
	add        bool
	delete     bool
	generalize bool
	init       bool
	specialize bool
	vcs        bool
	list       bool

	bootstrap bool
	link      bool
	remove    bool
	commit    bool
	sync      bool

	verbosity  int
	configFile string
	policy     string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var opts options

	rootCmd := &cobra.Command{
		Use:     MsgRootUse,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := buildAction(opts, args)
			if err != nil {
				_ = cmd.Usage()
				return err
			}

			env, err := newEnv(cmd, opts)
			if err != nil {
				return err
			}
			return actions.Execute(action, env)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.add, "add", "A", false, MsgFlagAdd)
	flags.BoolVarP(&opts.delete, "delete", "D", false, MsgFlagDelete)
	flags.BoolVarP(&opts.generalize, "generalize", "G", false, MsgFlagGeneralize)
	flags.BoolVarP(&opts.init, "init", "I", false, MsgFlagInit)
	flags.BoolVarP(&opts.specialize, "specialize", "S", false, MsgFlagSpecialize)
	flags.BoolVarP(&opts.vcs, "vcs", "V", false, MsgFlagVCS)
	flags.BoolVarP(&opts.list, "list", "L", false, MsgFlagList)
	rootCmd.MarkFlagsMutuallyExclusive("add", "delete", "generalize", "init", "specialize", "vcs", "list")

	flags.BoolVarP(&opts.bootstrap, "bootstrap", "b", false, MsgFlagBootstrap)
	flags.BoolVarP(&opts.link, "link", "l", false, MsgFlagLink)
	flags.BoolVarP(&opts.remove, "remove", "r", false, MsgFlagRemove)
	flags.BoolVarP(&opts.commit, "commit", "c", false, MsgFlagCommit)
	flags.BoolVarP(&opts.sync, "sync", "s", false, MsgFlagSync)
	flags.StringVar(&opts.policy, "policy", "", MsgFlagPolicy)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := installTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

//go:embed topics
var topicFiles embed.FS

func installTopics(rootCmd *cobra.Command) error {
	var renderer topics.Renderer = topics.PlainRenderer{}
	if isTerminal() {
		renderer = topics.NewGlamourRenderer()
	}

	manager, err := topics.Load(topicFiles, "topics", topics.Options{Renderer: renderer})
	if err != nil {
		return err
	}
	manager.Install(rootCmd)
	return nil
}

// newEnv resolves configuration, locations and collaborators for an action
func newEnv(cmd *cobra.Command, opts options) (*actions.Env, error) {
	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUserInput, "invalid --format")
	}

	overrides := map[string]interface{}{}
	if opts.policy != "" {
		overrides["generalize.policy"] = opts.policy
	}

	cfg, err := config.Load(config.LoadOptions{File: opts.configFile, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrSetup, err)
	}

	p, err := paths.New(cfg.PathOptions())
	if err != nil {
		return nil, fmt.Errorf(MsgErrSetup, err)
	}

	source := tags.SourceHome
	if opts.bootstrap {
		source = tags.SourceBootstrap
	}

	return &actions.Env{
		Config:     cfg,
		Paths:      p,
		Repository: repository.NewGit(p.RepositoryDir()),
		Printer:    ui.NewPrinter(cmd.OutOrStdout(), format.Resolve(os.Stdout)),
		FileSystem: filesystem.NewOS(),
		TagSource:  source,
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
