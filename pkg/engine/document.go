package engine

import (
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/annotation"
	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// alternative is one line of a group. raw keeps the original text so groups
// that are not touched are written back byte for byte.
type alternative struct {
	line   annotation.Line
	raw    string
	lineNo int
}

func (a alternative) matches(active tags.Set) bool {
	if a.line.Fallback {
		return true
	}
	return a.line.Tags.Intersects(active)
}

// group is the set of generic lines occupying one logical position
type group struct {
	alts  []alternative
	dirty bool
}

func plainGroup(payload string) *group {
	return &group{
		alts:  []alternative{{line: annotation.Line{Payload: payload, Kind: annotation.Plain}}},
		dirty: true,
	}
}

func taggedGroup(payload string, set tags.Set) *group {
	return &group{
		alts:  []alternative{{line: annotation.Line{Payload: payload, Kind: annotation.Open, Tags: set}}},
		dirty: true,
	}
}

func (g *group) unconditional() bool {
	return len(g.alts) == 1 && g.alts[0].line.Kind == annotation.Plain
}

func (g *group) removed() bool {
	return len(g.alts) == 0
}

// selectFor returns the index of the winning alternative for active, or -1,
// and the indexes of further tagged alternatives that also matched.
func (g *group) selectFor(active tags.Set) (int, []int) {
	if g.unconditional() {
		return 0, nil
	}

	winner := -1
	var shadowed []int
	for i, alt := range g.alts {
		if !alt.matches(active) {
			continue
		}
		if winner == -1 {
			winner = i
			continue
		}
		if !alt.line.Fallback {
			shadowed = append(shadowed, i)
		}
	}
	return winner, shadowed
}

// exactIndex returns the index of the tagged alternative conditioned on
// exactly set, or -1.
func (g *group) exactIndex(set tags.Set) int {
	for i, alt := range g.alts {
		if alt.line.Kind != annotation.Plain && !alt.line.Fallback && alt.line.Tags.Equal(set) {
			return i
		}
	}
	return -1
}

func (g *group) insert(at int, alt alternative) {
	g.alts = append(g.alts, alternative{})
	copy(g.alts[at+1:], g.alts[at:])
	g.alts[at] = alt
}

func (g *group) remove(at int) {
	g.alts = append(g.alts[:at], g.alts[at+1:]...)
}

// accepts reports whether an Open line reading line, written right after g,
// joins g instead of starting a group of its own. It joins when g is an
// open tagged group and no alternative in g shares a tag with line.
func (g *group) accepts(line annotation.Line) bool {
	if g == nil || g.removed() || g.unconditional() || line.Fallback {
		return false
	}
	for _, alt := range g.alts {
		if alt.line.Fallback || alt.line.Tags.Intersects(line.Tags) {
			return false
		}
	}
	return true
}

// render appends the lines of the group to out. prev is the group written
// just before it; the first line breaks away from prev where ':' would join.
func (g *group) render(out []string, prev *group) []string {
	if !g.dirty {
		for i, alt := range g.alts {
			if i == 0 && alt.line.Kind == annotation.Open && prev.accepts(alt.line) {
				line := alt.line
				line.Kind = annotation.Break
				out = append(out, line.String())
				continue
			}
			out = append(out, alt.raw)
		}
		return out
	}

	if g.unconditional() {
		return append(out, g.alts[0].line.Payload)
	}

	for i, alt := range g.alts {
		line := alt.line
		switch {
		case i > 0:
			line.Kind = annotation.Continue
		case prev.accepts(line):
			line.Kind = annotation.Break
		default:
			line.Kind = annotation.Open
		}
		out = append(out, line.String())
	}
	return out
}

// document is a parsed generic file
type document struct {
	groups          []*group
	trailingNewline bool
}

func parseDocument(content []byte) *document {
	lines, trailing := splitLines(content)
	doc := &document{trailingNewline: trailing}

	var open *group
	for i, raw := range lines {
		alt := alternative{line: annotation.Parse(raw), raw: raw, lineNo: i + 1}

		switch alt.line.Kind {
		case annotation.Plain:
			doc.groups = append(doc.groups, &group{alts: []alternative{alt}})
			open = nil
			continue
		case annotation.Continue:
			if open != nil {
				open.alts = append(open.alts, alt)
				break
			}
			// A continuation without an open group starts one; writing it
			// back in canonical form keeps later lines from joining it.
			open = &group{alts: []alternative{alt}, dirty: true}
			doc.groups = append(doc.groups, open)
		case annotation.Open:
			if open.accepts(alt.line) {
				open.alts = append(open.alts, alt)
				break
			}
			open = &group{alts: []alternative{alt}}
			doc.groups = append(doc.groups, open)
		case annotation.Break:
			open = &group{alts: []alternative{alt}}
			doc.groups = append(doc.groups, open)
		}

		if alt.line.Fallback {
			open = nil
		}
	}
	return doc
}

// splitLines splits content on '\n' and reports whether it ended with one
func splitLines(content []byte) ([]string, bool) {
	if len(content) == 0 {
		return nil, false
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1], true
	}
	return lines, false
}

func joinLines(lines []string, trailingNewline bool) []byte {
	if len(lines) == 0 {
		return []byte{}
	}
	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return []byte(out)
}
