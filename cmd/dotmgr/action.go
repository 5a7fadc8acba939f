package dotmgr

import (
	"github.com/arthur-debert/dotmgr/pkg/actions"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/ui"
)

// Modifier flag names, as shown in errors
const (
	modBootstrap = "-b"
	modLink      = "-l"
	modRemove    = "-r"
	modCommit    = "-c"
	modSync      = "-s"
)

// actionDef describes one action flag: how many positional arguments it
// takes and which modifiers it accepts
type actionDef struct {
	flag      string
	needsPath bool
	maxArgs   int
	modifiers []string
	build     func(opts options, path, message string, args []string) actions.Action
}

var actionDefs = map[string]actionDef{
	"add": {
		flag: "-A", needsPath: true, maxArgs: 1,
		modifiers: []string{modBootstrap, modCommit, modSync},
		build: func(opts options, path, _ string, _ []string) actions.Action {
			return actions.Add{Path: path, Commit: opts.commit}
		},
	},
	"delete": {
		flag: "-D", maxArgs: 1,
		modifiers: []string{modBootstrap, modRemove, modCommit, modSync},
		build: func(opts options, path, _ string, _ []string) actions.Action {
			return actions.Delete{Path: path, FromRepository: opts.remove, Commit: opts.commit}
		},
	},
	"generalize": {
		flag: "-G", maxArgs: 2,
		modifiers: []string{modBootstrap, modCommit, modSync},
		build: func(opts options, path, message string, _ []string) actions.Action {
			return actions.Generalize{Path: path, Commit: opts.commit, Message: message}
		},
	},
	"init": {
		flag: "-I", maxArgs: 1,
		build: func(_ options, url, _ string, _ []string) actions.Action {
			return actions.Init{URL: url}
		},
	},
	"specialize": {
		flag: "-S", maxArgs: 1,
		modifiers: []string{modBootstrap, modLink, modSync},
		build: func(opts options, path, _ string, _ []string) actions.Action {
			return actions.Specialize{Path: path, Link: opts.link}
		},
	},
	"vcs": {
		flag: "-V", maxArgs: -1,
		build: func(_ options, _, _ string, args []string) actions.Action {
			return actions.RunCommand{Args: args}
		},
	},
	"list": {
		flag: "-L", maxArgs: 0,
		modifiers: []string{modBootstrap},
		build: func(opts options, _, _ string, _ []string) actions.Action {
			format, _ := ui.ParseFormat(opts.format)
			return actions.List{Format: format}
		},
	},
	"link": {
		flag: "-l", maxArgs: 0,
		modifiers: []string{modBootstrap, modLink},
		build: func(_ options, _, _ string, _ []string) actions.Action {
			return actions.Link{}
		},
	},
}

// selected returns the name of the chosen action. -l on its own selects
// linking.
func (o options) selected() string {
	switch {
	case o.add:
		return "add"
	case o.delete:
		return "delete"
	case o.generalize:
		return "generalize"
	case o.init:
		return "init"
	case o.specialize:
		return "specialize"
	case o.vcs:
		return "vcs"
	case o.list:
		return "list"
	case o.link:
		return "link"
	}
	return ""
}

func (o options) modifiers() []string {
	var set []string
	for _, m := range []struct {
		name string
		on   bool
	}{
		{modBootstrap, o.bootstrap},
		{modLink, o.link},
		{modRemove, o.remove},
		{modCommit, o.commit},
		{modSync, o.sync},
	} {
		if m.on {
			set = append(set, m.name)
		}
	}
	return set
}

// buildAction turns the command line into an action without touching
// anything
func buildAction(opts options, args []string) (actions.Action, error) {
	name := opts.selected()
	if name == "" {
		return nil, errors.New(errors.ErrUserInput, MsgErrNoAction)
	}
	def := actionDefs[name]

	for _, mod := range opts.modifiers() {
		if !contains(def.modifiers, mod) {
			return nil, errors.Newf(errors.ErrUserInput, MsgErrModifier, mod, def.flag)
		}
	}

	if def.maxArgs >= 0 && len(args) > def.maxArgs {
		if len(args) == 2 && def.maxArgs == 1 {
			return nil, errors.New(errors.ErrUserInput, MsgErrMessageOnlyGen)
		}
		return nil, errors.Newf(errors.ErrUserInput, MsgErrTooManyArgs, def.flag)
	}

	var path, message string
	if def.maxArgs > 0 && len(args) > 0 {
		path = args[0]
	}
	if def.maxArgs > 1 && len(args) > 1 {
		message = args[1]
	}
	if def.needsPath && path == "" {
		return nil, errors.Newf(errors.ErrUserInput, MsgErrPathRequired, def.flag)
	}

	action := def.build(opts, path, message, args)
	if opts.sync {
		action = actions.Sync{Action: action}
	}
	return action, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
