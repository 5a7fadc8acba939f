// Package repository wraps the version control of the dotfile repository.
//
// The manager only needs a handful of operations (commit one file, commit a
// removal, pull, push) so they are behind the Repository interface and can be
// replaced in tests. Git implements it by running the git binary.
package repository

// Repository is the version control capability of the dotfile repository
type Repository interface {
	// Path returns the repository root
	Path() string

	// Clone clones url into the repository root
	Clone(url string) error

	// Init creates the repository if needed and commits an initial tag
	// configuration at tagConfigRel when it does not exist yet
	Init(tagConfigRel, hostname string) error

	// Add commits a new dotfile
	Add(path string) error

	// Remove commits the removal of a dotfile
	Remove(path string) error

	// Update commits changes to a dotfile. Unchanged files are skipped and an
	// empty message is replaced by a default one.
	Update(path, message string) error

	// Pull fetches and merges upstream changes
	Pull() error

	// Push publishes local commits
	Push() error

	// Execute runs an arbitrary command in the repository and returns its
	// output
	Execute(args []string) (string, error)
}
