// Package filesystem provides filesystem implementations for dotmgr.
//
// The FS interface covers what the manager and the tag loader need: reading
// and writing whole files, directories, renames and symlinks. NewOS is used
// in production; NewAferoFS wraps an afero filesystem for tests that only
// read and write regular files.
package filesystem
