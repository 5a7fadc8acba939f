package config

import (
	"bytes"

	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = "# dotmgr configuration\n# See `dotmgr --help` for the environment variables overriding these values.\n\n"

// Generate renders cfg as a TOML config file
func Generate(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return buf.Bytes(), nil
}
