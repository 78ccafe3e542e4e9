package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/q2usage/pkg/errors"
	pelletier "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty directory
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, Render{Program: "qiime", Indent: 4, Width: 70}, cfg.Render)
	assert.Equal(t, Output{Format: "auto", Style: "auto"}, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayers(t *testing.T) {
	home := isolate(t)
	work := t.TempDir()

	t.Run("defaults only", func(t *testing.T) {
		cfg, err := Load(Options{WorkDir: work})
		require.NoError(t, err)
		assert.Equal(t, 70, cfg.Render.Width)
	})

	writeFile(t, filepath.Join(home, "config", "q2usage", "config.toml"), `
[render]
program = "q2"
width = 80
`)

	t.Run("user file", func(t *testing.T) {
		cfg, err := Load(Options{WorkDir: work})
		require.NoError(t, err)
		assert.Equal(t, "q2", cfg.Render.Program)
		assert.Equal(t, 80, cfg.Render.Width)
		assert.Equal(t, 4, cfg.Render.Indent)
	})

	writeFile(t, filepath.Join(work, ProjectFileName), `
[render]
width = 90

[output]
format = "json"
`)

	t.Run("project file wins over user file", func(t *testing.T) {
		cfg, err := Load(Options{WorkDir: work})
		require.NoError(t, err)
		assert.Equal(t, "q2", cfg.Render.Program)
		assert.Equal(t, 90, cfg.Render.Width)
		assert.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("environment wins over files", func(t *testing.T) {
		t.Setenv("Q2USAGE_RENDER_WIDTH", "100")
		t.Setenv("Q2USAGE_OUTPUT_FORMAT", "yaml")
		cfg, err := Load(Options{WorkDir: work})
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Render.Width)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("overrides win over everything", func(t *testing.T) {
		t.Setenv("Q2USAGE_RENDER_WIDTH", "100")
		cfg, err := Load(Options{
			WorkDir:   work,
			Overrides: map[string]interface{}{"render.width": 120, "render.program": "qiime2"},
		})
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Render.Width)
		assert.Equal(t, "qiime2", cfg.Render.Program)
	})
}

func TestLoadExplicitFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config", "q2usage", "config.toml"), "[render]\nprogram = \"ignored\"\n")

	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[render]\nindent = 2\n")

	cfg, err := Load(Options{ConfigFile: path, WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "qiime", cfg.Render.Program)
	assert.Equal(t, 2, cfg.Render.Indent)

	_, err = Load(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.toml")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"bad toml", "[render\nwidth = ", errors.ErrConfigParse},
		{"empty program", "[render]\nprogram = \"  \"\n", errors.ErrConfigValid},
		{"negative indent", "[render]\nindent = -1\n", errors.ErrConfigValid},
		{"width not past indent", "[render]\nindent = 10\nwidth = 10\n", errors.ErrConfigValid},
		{"unknown format", "[output]\nformat = \"html\"\n", errors.ErrConfigValid},
		{"wrong type", "[render]\nwidth = \"wide\"\n", errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := t.TempDir()
			writeFile(t, filepath.Join(work, ProjectFileName), tt.content)

			_, err := Load(Options{WorkDir: work})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestGenerate(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Render.Width = 88

	out, err := Generate(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[render]")
	assert.Regexp(t, `program = ['"]qiime['"]`, string(out))

	var back Config
	require.NoError(t, pelletier.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}

func TestDefaultContentIsCommented(t *testing.T) {
	assert.Contains(t, DefaultContent(), "# q2usage configuration")
	assert.Contains(t, DefaultContent(), "[output]")
}
