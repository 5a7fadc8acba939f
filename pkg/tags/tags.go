// Package tags holds the active tag set of a machine and loads it from the
// tag configuration file.
package tags

import (
	"regexp"
	"sort"
	"strings"
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.+-]*$`)

// Valid reports whether tag is a well-formed tag identifier. The characters
// '*', '~', ',' and whitespace are reserved by the annotation format.
func Valid(tag string) bool {
	return tagPattern.MatchString(tag)
}

// Set is an ordered, duplicate-free list of tags. Membership ignores order;
// the order is kept for writing annotations back.
type Set struct {
	tags []string
}

// NewSet builds a Set from tags, dropping empty strings and duplicates while
// keeping first-seen order.
func NewSet(tags ...string) Set {
	var s Set
	for _, tag := range tags {
		s.add(tag)
	}
	return s
}

func (s *Set) add(tag string) {
	if tag == "" || s.Contains(tag) {
		return
	}
	s.tags = append(s.tags, tag)
}

// Tags returns a copy of the tags in order
func (s Set) Tags() []string {
	return append([]string(nil), s.tags...)
}

// Len returns the number of tags
func (s Set) Len() int {
	return len(s.tags)
}

// Empty reports whether the set has no tags
func (s Set) Empty() bool {
	return len(s.tags) == 0
}

// Contains reports whether tag is in the set
func (s Set) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Intersects reports whether s and other share at least one tag
func (s Set) Intersects(other Set) bool {
	for _, t := range s.tags {
		if other.Contains(t) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same tags, in any order
func (s Set) Equal(other Set) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for _, t := range s.tags {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexicographic order
func (s Set) Sorted() []string {
	sorted := s.Tags()
	sort.Strings(sorted)
	return sorted
}

// String renders the set as a comma separated list
func (s Set) String() string {
	return strings.Join(s.tags, ",")
}
