package config

import (
	"bytes"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Generate encodes cfg as a TOML config file
func Generate(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}
