package tags

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/filesystem"
	"github.com/arthur-debert/dotmgr/pkg/logging"
)

// Source selects where the tag configuration is read from
type Source int

const (
	// SourceHome reads the machine's own copy below the home directory
	SourceHome Source = iota
	// SourceBootstrap reads the copy stored in the dotfile repository, used
	// before the home copy has been specialized onto a new machine
	SourceBootstrap
)

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case SourceHome:
		return "home"
	case SourceBootstrap:
		return "bootstrap"
	default:
		return "unknown"
	}
}

// ConfigPath resolves the tag configuration file for the given source.
// relPath is the configured location relative to the home directory (or an
// absolute path, which is only honored for SourceHome).
func ConfigPath(source Source, homeDir, repoDir, relPath string) string {
	if source == SourceBootstrap {
		return filepath.Join(repoDir, strings.TrimPrefix(relPath, string(filepath.Separator)))
	}
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(homeDir, relPath)
}

// LoadOptions holds options for loading the tag configuration
type LoadOptions struct {
	Path       string
	Hostname   string
	FileSystem filesystem.FS
}

// Load reads the tag configuration file and returns the tags active for
// Hostname. A missing file is a configuration error.
func Load(opts LoadOptions) (Set, error) {
	logger := logging.GetLogger("tags")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	hostname := opts.Hostname
	if hostname == "" {
		var err error
		hostname, err = os.Hostname()
		if err != nil {
			return Set{}, errors.Wrap(err, errors.ErrConfig, "failed to determine hostname")
		}
	}

	content, err := fs.ReadFile(opts.Path)
	if err != nil {
		return Set{}, errors.Wrapf(err, errors.ErrConfig, "tag configuration file %q not found", opts.Path).
			WithDetail("path", opts.Path)
	}

	set, err := Parse(content, hostname)
	if err != nil {
		return Set{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid tag configuration %q", opts.Path).
			WithDetail("path", opts.Path)
	}

	if set.Empty() {
		logger.Warn().
			Str("path", opts.Path).
			Str("hostname", hostname).
			Msg("No tags found for this machine")
	} else {
		logger.Info().
			Str("path", opts.Path).
			Str("hostname", hostname).
			Strs("tags", set.Tags()).
			Msg("Found tags")
	}

	return set, nil
}

// Parse extracts the tags for hostname from a tag configuration.
//
// The format is line based. Everything after '#' is a comment and blank lines
// are ignored. A line of the form "host: tag tag" applies only when host
// equals hostname; any other line lists tags shared by every machine. Tags
// are separated by whitespace or commas.
func Parse(content []byte, hostname string) (Set, error) {
	var set Set

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if host, rest, ok := strings.Cut(line, ":"); ok {
			if strings.TrimSpace(host) != hostname {
				continue
			}
			line = rest
		}

		for _, tag := range strings.FieldsFunc(line, isSeparator) {
			if !Valid(tag) {
				return Set{}, errors.Newf(errors.ErrConfigParse, "line %d: invalid tag %q", lineNo, tag)
			}
			set.add(tag)
		}
	}
	if err := scanner.Err(); err != nil {
		return Set{}, err
	}

	return set, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\r'
}

// DefaultContent returns the initial tag configuration written when a
// repository is initialized: the machine's hostname tagged with itself.
func DefaultContent(hostname string) []byte {
	return []byte(hostname + ": " + hostname + "\n")
}
