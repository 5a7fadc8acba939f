// Package annotation reads and writes the tag annotations carried by the
// lines of a generic dotfile.
//
// An annotation is a suffix made of the reserved marker " #tags" (note the
// leading space), a separator and a tag list, and it must end the line:
//
//	export HOST=laptop #tags:laptop       opens an alternative group
//	export HOST=desktop #tags|desktop     another alternative of that group
//	export HOST=unknown #tags|*           fallback, used when no sibling matched
//	source ~/.work.sh #tags:~laptop       omit: nothing is emitted on laptop
//	export PAGER=less #tags!laptop        always opens a new group
//
// '|' continues the group opened above. ':' joins the group above when its
// tags are disjoint from the tags of every alternative already in it, so
// consecutive lines such as "#tags:laptop" and "#tags:desktop" are
// alternatives of one position; otherwise it opens a new group. '!' always
// opens a new group and is written where ':' would join. A tag list is one or more tags separated by commas. The
// list "*" marks the fallback alternative, which closes its group. A list
// prefixed with '~' marks an omit alternative: when it is selected the
// position produces no line, and its payload is kept only for readers.
//
// A line without a well-formed trailing annotation is unconditional and is
// taken verbatim, marker text included. A concrete line that itself ends in a
// well-formed annotation cannot be stored as is; it reads back annotated.
package annotation

import (
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/tags"
)

// Marker is the reserved text that starts every annotation
const Marker = " #tags"

const (
	openSeparator     = ':'
	continueSeparator = '|'
	breakSeparator    = '!'
	fallbackList      = "*"
	omitPrefix        = "~"
)

// Kind tells how a line takes part in alternative groups
type Kind int

const (
	// Plain lines carry no annotation and are always emitted
	Plain Kind = iota
	// Open lines join the group above when their tags are disjoint from
	// all of its alternatives and start a new group otherwise
	Open
	// Continue lines add an alternative to the group opened above them
	Continue
	// Break lines always start a new alternative group
	Break
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Open:
		return "open"
	case Continue:
		return "continue"
	case Break:
		return "break"
	default:
		return "unknown"
	}
}

// Line is one parsed line of a generic dotfile
type Line struct {
	Payload  string
	Kind     Kind
	Tags     tags.Set
	Fallback bool
	Omit     bool
}

// Annotated reports whether the line carries an annotation
func (l Line) Annotated() bool {
	return l.Kind != Plain
}

// Parse splits line into its payload and annotation
func Parse(line string) Line {
	plain := Line{Payload: line, Kind: Plain}

	idx := strings.LastIndex(line, Marker)
	if idx < 0 || idx+len(Marker) >= len(line) {
		return plain
	}

	var kind Kind
	switch line[idx+len(Marker)] {
	case openSeparator:
		kind = Open
	case continueSeparator:
		kind = Continue
	case breakSeparator:
		kind = Break
	default:
		return plain
	}

	parsed := Line{Payload: line[:idx], Kind: kind}
	list := line[idx+len(Marker)+1:]

	if list == fallbackList {
		parsed.Fallback = true
		return parsed
	}

	if strings.HasPrefix(list, omitPrefix) {
		parsed.Omit = true
		list = list[len(omitPrefix):]
	}

	names := strings.Split(list, ",")
	for _, name := range names {
		if !tags.Valid(name) {
			return plain
		}
	}
	parsed.Tags = tags.NewSet(names...)
	return parsed
}

// Write produces the annotated line opening a group conditioned on set. An
// empty set is unconditional and yields the bare payload.
func Write(payload string, set tags.Set) string {
	if set.Empty() {
		return payload
	}
	return Line{Payload: payload, Kind: Open, Tags: set}.String()
}

// String renders the line in canonical form
func (l Line) String() string {
	if l.Kind == Plain {
		return l.Payload
	}

	var b strings.Builder
	b.WriteString(l.Payload)
	b.WriteString(Marker)
	switch l.Kind {
	case Open:
		b.WriteByte(openSeparator)
	case Break:
		b.WriteByte(breakSeparator)
	default:
		b.WriteByte(continueSeparator)
	}

	switch {
	case l.Fallback:
		b.WriteString(fallbackList)
	default:
		if l.Omit {
			b.WriteString(omitPrefix)
		}
		b.WriteString(l.Tags.String())
	}
	return b.String()
}

// Strip returns line without its annotation
func Strip(line string) string {
	return Parse(line).Payload
}
