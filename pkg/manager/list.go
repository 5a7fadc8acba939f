package manager

import (
	"sort"

	"github.com/arthur-debert/dotmgr/pkg/filesystem"
)

// Entry describes the state of one dotfile
type Entry struct {
	Path    string `yaml:"path"`
	Staged  bool   `yaml:"staged"`
	Linked  bool   `yaml:"linked"`
	Generic bool   `yaml:"generic"`
}

// List returns every dotfile known to the stage or the repository, sorted by
// path
func (m *Manager) List() ([]Entry, error) {
	staged, err := m.StagedFiles()
	if err != nil {
		return nil, err
	}
	generic, err := m.RepositoryFiles()
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Entry)
	get := func(rel string) *Entry {
		if e, ok := byPath[rel]; ok {
			return e
		}
		e := &Entry{Path: rel}
		byPath[rel] = e
		return e
	}
	for _, rel := range staged {
		get(rel).Staged = true
	}
	for _, rel := range generic {
		get(rel).Generic = true
	}

	entries := make([]Entry, 0, len(byPath))
	for rel, e := range byPath {
		e.Linked = m.isLinked(rel) && filesystem.Exists(m.fs, m.paths.StagePath(rel))
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
