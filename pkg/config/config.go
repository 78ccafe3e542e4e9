package config

import (
	"strings"

	"github.com/arthur-debert/q2usage/pkg/errors"
)

// Config is the complete q2usage configuration
type Config struct {
	Render Render `koanf:"render" toml:"render"`
	Output Output `koanf:"output" toml:"output"`
}

// Render controls the layout of rendered commands
type Render struct {
	Program string `koanf:"program" toml:"program"`
	Indent  int    `koanf:"indent" toml:"indent"`
	Width   int    `koanf:"width" toml:"width"`
}

// Output controls how results are presented
type Output struct {
	Format string `koanf:"format" toml:"format"`
	Style  string `koanf:"style" toml:"style"`
}

// Formats lists the accepted output.format values
var Formats = []string{"auto", "text", "term", "json", "yaml", "markdown"}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Render.Program) == "" {
		return errors.New(errors.ErrConfigValid, "render.program must not be empty").
			WithDetail("key", "render.program")
	}
	if c.Render.Indent < 0 {
		return errors.Newf(errors.ErrConfigValid, "render.indent must not be negative, got %d", c.Render.Indent).
			WithDetail("key", "render.indent")
	}
	if c.Render.Width <= c.Render.Indent {
		return errors.Newf(errors.ErrConfigValid, "render.width (%d) must be greater than render.indent (%d)",
			c.Render.Width, c.Render.Indent).
			WithDetail("key", "render.width")
	}

	for _, f := range Formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "unknown output.format %q (want one of %s)",
		c.Output.Format, strings.Join(Formats, ", ")).
		WithDetail("key", "output.format")
}
