package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/annotation"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/tags"
	"github.com/pmezard/go-difflib/difflib"
)

// Policy decides how lines added or removed on one machine affect the
// unconditional part of a generic file. Changed lines always become
// alternatives for the current tags.
type Policy string

const (
	// PolicyShared stores new lines unconditionally and removes deleted
	// unconditional lines for every machine
	PolicyShared Policy = "shared"
	// PolicyIsolated tags new lines with the current tags and hides deleted
	// unconditional lines only on machines matching them
	PolicyIsolated Policy = "isolated"
)

// ParsePolicy parses a policy name; the empty string selects PolicyShared
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyShared:
		return PolicyShared, nil
	case PolicyIsolated:
		return PolicyIsolated, nil
	default:
		return "", fmt.Errorf("unknown generalize policy: %q", s)
	}
}

// GeneralizeOptions holds options for Generalize
type GeneralizeOptions struct {
	Policy Policy
}

// GeneralizeResult is the outcome of folding a concrete file into its
// generic form
type GeneralizeResult struct {
	Content  []byte
	Changed  bool
	Kept     int
	Replaced int
	Inserted int
	Deleted  int
}

// Generalize merges concrete, the content of a dotfile on a machine with the
// active tags, into prior, its generic form. A nil prior means the file is
// new; it is then stored unconditionally as it is.
func Generalize(prior, concrete []byte, active tags.Set, opts GeneralizeOptions) *GeneralizeResult {
	logger := logging.GetLogger("engine.generalize")

	newLines, trailing := splitLines(concrete)

	if prior == nil {
		return &GeneralizeResult{
			Content:  joinLines(newLines, trailing),
			Changed:  true,
			Inserted: len(newLines),
		}
	}

	doc := parseDocument(prior)
	if len(newLines) == 0 {
		trailing = doc.trailingNewline
	}

	projected, _, _ := project(doc, active)
	oldLines := make([]string, len(projected))
	for i, p := range projected {
		oldLines[i] = p.text
	}

	m := &merger{
		doc:    doc,
		active: active,
		policy: opts.Policy,
		after:  make(map[int][]*group),
		result: &GeneralizeResult{},
	}
	if m.policy == "" {
		m.policy = PolicyShared
	}

	matcher := difflib.NewMatcherWithJunk(oldLines, newLines, false, nil)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			m.result.Kept += op.I2 - op.I1
		case 'r':
			paired := min(op.I2-op.I1, op.J2-op.J1)
			for k := 0; k < paired; k++ {
				m.replace(projected[op.I1+k], newLines[op.J1+k])
			}
			for k := op.I1 + paired; k < op.I2; k++ {
				m.delete(projected[k])
			}
			if op.J1+paired < op.J2 {
				m.insert(projected[op.I1+paired-1].group, newLines[op.J1+paired:op.J2])
			}
		case 'd':
			for k := op.I1; k < op.I2; k++ {
				m.delete(projected[k])
			}
		case 'i':
			anchor := -1
			if op.I1 > 0 {
				anchor = projected[op.I1-1].group
			}
			m.insert(anchor, newLines[op.J1:op.J2])
		}
	}

	content := joinLines(m.render(), trailing)
	m.result.Content = content
	m.result.Changed = !bytes.Equal(content, prior)

	logger.Debug().
		Strs("tags", active.Tags()).
		Int("kept", m.result.Kept).
		Int("replaced", m.result.Replaced).
		Int("inserted", m.result.Inserted).
		Int("deleted", m.result.Deleted).
		Bool("changed", m.result.Changed).
		Msg("Generalized dotfile")

	return m.result
}

// merger applies the edits of one Generalize call to a document
type merger struct {
	doc    *document
	active tags.Set
	policy Policy
	// after holds new groups to write after the group with the given index;
	// -1 is the start of the file
	after  map[int][]*group
	result *GeneralizeResult
}

func (m *merger) tagged(payload string) alternative {
	return alternative{line: annotation.Line{Payload: payload, Kind: annotation.Open, Tags: m.active}}
}

func (m *merger) omitted(payload string) alternative {
	return alternative{line: annotation.Line{Payload: payload, Kind: annotation.Open, Tags: m.active, Omit: true}}
}

func fallback(payload string) alternative {
	return alternative{line: annotation.Line{Payload: payload, Kind: annotation.Continue, Fallback: true}}
}

// claim makes alt the alternative selected for the active tags in g, placing
// it where the current winner is. An existing alternative for exactly the
// active tags sits after the winner and is dropped.
func (m *merger) claim(g *group, winner int, alt alternative) {
	if exact := g.exactIndex(m.active); exact > winner {
		g.remove(exact)
	}
	g.insert(winner, alt)
}

func (m *merger) replace(p projectedLine, text string) {
	g := m.doc.groups[p.group]
	g.dirty = true
	m.result.Replaced++

	if g.unconditional() {
		if m.active.Empty() {
			g.alts[0].line.Payload = text
			return
		}
		old := g.alts[0].line.Payload
		g.alts = []alternative{m.tagged(text), fallback(old)}
		return
	}

	winner := &g.alts[p.winner]
	switch {
	case m.active.Empty():
		// only a fallback can be selected without tags
		winner.line.Payload = text
	case !winner.line.Fallback && winner.line.Tags.Equal(m.active):
		winner.line.Payload = text
	default:
		m.claim(g, p.winner, m.tagged(text))
	}
}

func (m *merger) delete(p projectedLine) {
	g := m.doc.groups[p.group]
	g.dirty = true
	m.result.Deleted++

	if g.unconditional() {
		if m.active.Empty() || m.policy == PolicyShared {
			g.alts = nil
			return
		}
		old := g.alts[0].line.Payload
		g.alts = []alternative{m.omitted(old), fallback(old)}
		return
	}

	winner := g.alts[p.winner]
	switch {
	case m.active.Empty():
		g.remove(p.winner)
	case !winner.line.Fallback && winner.line.Tags.Equal(m.active):
		if laterMatch(g, p.winner, m.active) {
			g.alts[p.winner].line.Omit = true
		} else {
			g.remove(p.winner)
		}
	default:
		m.claim(g, p.winner, m.omitted(winner.line.Payload))
	}
}

func laterMatch(g *group, after int, active tags.Set) bool {
	for _, alt := range g.alts[after+1:] {
		if alt.matches(active) {
			return true
		}
	}
	return false
}

func (m *merger) insert(anchor int, lines []string) {
	for _, line := range lines {
		if m.active.Empty() || m.policy == PolicyShared {
			m.after[anchor] = append(m.after[anchor], plainGroup(line))
		} else {
			m.after[anchor] = append(m.after[anchor], taggedGroup(line, m.active))
		}
		m.result.Inserted++
	}
}

func (m *merger) render() []string {
	var out []string
	var prev *group
	emit := func(g *group) {
		out = g.render(out, prev)
		prev = g
	}

	for _, g := range m.after[-1] {
		emit(g)
	}
	for i, g := range m.doc.groups {
		if !g.removed() {
			emit(g)
		}
		for _, inserted := range m.after[i] {
			emit(inserted)
		}
	}
	return out
}
