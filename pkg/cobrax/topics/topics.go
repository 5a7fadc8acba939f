// Package topics adds file-backed help topics to a Cobra command.
//
// Topics are files in an fs.FS, usually embedded in the binary. A topic is
// named after its file without extension and is shown by "help <topic>".
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help document
type Topic struct {
	Name    string
	File    string
	Content string
}

// Options configures Install
type Options struct {
	// Extensions lists the file extensions read as topics, [".md", ".txt"]
	// when empty
	Extensions []string

	// Renderer formats topics, PlainRenderer when nil
	Renderer Renderer
}

// Manager holds the topics found in a filesystem
type Manager struct {
	topics   map[string]*Topic
	renderer Renderer
}

// Load reads every topic file below root in fsys
func Load(fsys fs.FS, root string, opts Options) (*Manager, error) {
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".md", ".txt"}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = PlainRenderer{}
	}

	m := &Manager{topics: make(map[string]*Topic), renderer: renderer}
	err := fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := path.Ext(name)
		if d.IsDir() || !hasExtension(extensions, ext) {
			return nil
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		topicName := strings.TrimSuffix(path.Base(name), ext)
		m.topics[topicName] = &Topic{Name: topicName, File: name, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}
	return m, nil
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Get returns the named topic
func (m *Manager) Get(name string) (*Topic, bool) {
	topic, ok := m.topics[name]
	return topic, ok
}

// Names returns the topic names in sorted order
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the topic formatted by the manager's renderer
func (m *Manager) Render(topic *Topic) string {
	return m.renderer.Render(topic.Content, topic.File)
}

func (m *Manager) printList(w io.Writer, program string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}
	fmt.Fprintln(w, "Available help topics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Install replaces the help command of root with one that also knows the
// manager's topics. "help topics" lists them.
func (m *Manager) Install(root *cobra.Command) {
	defaultHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.

To see all available help topics:
  ` + root.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			return append(completions, m.Names()...), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				defaultHelp(root, args)
			case args[0] == "topics":
				m.printList(out, root.Name())
			default:
				if topic, ok := m.Get(args[0]); ok {
					fmt.Fprint(out, m.Render(topic))
					return
				}
				if target, _, err := root.Find(args); err == nil && target != root {
					defaultHelp(target, args)
					return
				}
				defaultHelp(root, args)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
		}
	}
	root.SetHelpCommand(helpCmd)
}
