package topics

import (
	"path"

	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for display. name is the topic's file
// name, used to tell markdown from plain text.
type Renderer interface {
	Render(content, name string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

func (PlainRenderer) Render(content, _ string) string {
	return content
}

// GlamourRenderer renders markdown topics for the terminal
type GlamourRenderer struct {
	Width int // 0 keeps glamour's default
}

// NewGlamourRenderer creates a markdown renderer with the style picked from
// the terminal background
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

func (r *GlamourRenderer) Render(content, name string) string {
	if path.Ext(name) != ".md" {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
