package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/manager"
	"github.com/arthur-debert/dotmgr/pkg/ui/styles"
	"gopkg.in/yaml.v3"
)

// Printer writes command output in one format
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer. FormatAuto is treated as FormatText; resolve
// it against the output first to get styling.
func NewPrinter(w io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Printer{w: w, format: format}
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

func (p *Printer) style(name, text string) string {
	if p.format != FormatTerminal {
		return text
	}
	return styles.GetStyle(name).Render(text)
}

// Success prints a completion message. Messages are left out of YAML output.
func (p *Printer) Success(format string, args ...interface{}) {
	p.message("Success", format, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	p.message("Warning", format, args...)
}

func (p *Printer) message(style, format string, args ...interface{}) {
	if p.format == FormatYAML {
		return
	}
	_, _ = fmt.Fprintln(p.w, p.style(style, fmt.Sprintf(format, args...)))
}

// Raw prints text unchanged, as returned by an external command, ending it
// with a newline when it has none
func (p *Printer) Raw(text string) {
	if text == "" {
		return
	}
	if strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprint(p.w, text)
		return
	}
	_, _ = fmt.Fprintln(p.w, text)
}

// Entries prints the state of tracked dotfiles
func (p *Printer) Entries(entries []manager.Entry) error {
	if p.format == FormatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(p.w, p.style("Muted", "No dotfiles tracked"))
		return nil
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Path))
	}
	for _, e := range entries {
		state, style := entryState(e)
		path := fmt.Sprintf("%-*s", width, e.Path)
		_, _ = fmt.Fprintf(p.w, "%s  %s\n", p.style("FilePath", path), p.style(style, state))
	}
	return nil
}

func entryState(e manager.Entry) (string, string) {
	switch {
	case e.Linked && e.Generic:
		return "linked", "Linked"
	case e.Linked:
		return "linked, not generalized", "Pending"
	case e.Staged && e.Generic:
		return "staged, not linked", "Staged"
	case e.Staged:
		return "staged, not generalized", "Pending"
	default:
		return "not specialized", "Pending"
	}
}
