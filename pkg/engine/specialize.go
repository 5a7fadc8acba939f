package engine

import (
	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// Conflict records a position where more than one tagged alternative
// matched the active tags. The earliest one is used.
type Conflict struct {
	// Line is the 1-based line of the selected alternative in the generic file
	Line     int
	Selected tags.Set
	Shadowed []tags.Set
}

// SpecializeResult is the outcome of projecting a generic file
type SpecializeResult struct {
	Content   []byte
	Lines     int
	Omitted   int
	Conflicts []Conflict
}

// projectedLine is one emitted concrete line and where it came from
type projectedLine struct {
	text   string
	group  int
	winner int
}

// project emits the concrete lines of doc for active. Positions that produce
// no line are counted in omitted.
func project(doc *document, active tags.Set) (lines []projectedLine, omitted int, conflicts []Conflict) {
	for gi, g := range doc.groups {
		winner, shadowed := g.selectFor(active)
		if winner < 0 || g.alts[winner].line.Omit {
			omitted++
			continue
		}

		if len(shadowed) > 0 && !g.alts[winner].line.Fallback {
			c := Conflict{
				Line:     g.alts[winner].lineNo,
				Selected: g.alts[winner].line.Tags,
			}
			for _, i := range shadowed {
				c.Shadowed = append(c.Shadowed, g.alts[i].line.Tags)
			}
			conflicts = append(conflicts, c)
		}

		lines = append(lines, projectedLine{
			text:   g.alts[winner].line.Payload,
			group:  gi,
			winner: winner,
		})
	}
	return lines, omitted, conflicts
}

// Specialize renders the generic file for a machine with the active tags.
// It is a pure function of its arguments.
func Specialize(generic []byte, active tags.Set) *SpecializeResult {
	doc := parseDocument(generic)
	projected, omitted, conflicts := project(doc, active)

	lines := make([]string, len(projected))
	for i, p := range projected {
		lines[i] = p.text
	}

	return &SpecializeResult{
		Content:   joinLines(lines, doc.trailingNewline),
		Lines:     len(lines),
		Omitted:   omitted,
		Conflicts: conflicts,
	}
}
