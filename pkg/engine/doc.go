// Package engine converts dotfiles between their generic form, stored in the
// shared repository with tag annotations, and the concrete form used on one
// machine.
//
// A generic file is read as a sequence of groups. An unannotated line is a
// group of its own and is emitted on every machine. Annotated lines form
// alternative groups (see package annotation): for a given tag set the first
// alternative whose tags intersect it wins, a fallback wins when nothing
// before it matched, and an omit alternative wins without emitting anything.
//
// Specialize projects a generic file onto a tag set. Generalize folds an
// edited concrete file back into the generic one. It aligns the previous
// projection with the new concrete lines using a longest-matching-block diff,
// so unchanged lines act as anchors and insertions elsewhere in the file do
// not shift the matching. Whatever it writes satisfies
//
//	Specialize(Generalize(prior, concrete, T), T) == concrete
//
// which makes a second Generalize without intervening edits a no-op.
package engine
