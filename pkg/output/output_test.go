package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/plugin"
	"github.com/arthur-debert/q2usage/pkg/render"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const definitions = `
plugin "diversity" {
  action "alpha" {
    description = "Alpha diversity"
    input "table" { type = "FeatureTable[Frequency]" }
    parameter "metric" { type = "Str" }
    parameter "metadata" { type = "Metadata" }
    output "alpha_diversity" { type = "SampleData[AlphaDiversity]" }

    example "shannon_entropy" {
      init_data "table" {}
      use_action "diversity" "alpha" {
        inputs {
          table  = table
          metric = "shannon"
        }
        outputs {
          alpha_diversity = "shannon"
        }
      }
    }
  }
}
`

func loadActions(t *testing.T) []*plugin.Action {
	t.Helper()
	l := plugin.NewLoader()
	require.NoError(t, l.LoadBytes([]byte(definitions), filepath.Join(t.TempDir(), "defs.hcl")))
	return l.Registry().Actions()
}

func buildDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := Build(loadActions(t), render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return doc
}

const shannonText = "qiime diversity alpha \\\n" +
	"    --i-table table.qza \\\n" +
	"    --p-metric shannon \\\n" +
	"    --o-alpha-diversity shannon.qza"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"term", FormatTerminal},
		{"terminal", FormatTerminal},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"yml", FormatYAML},
		{"md", FormatMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("html")
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputFormat))
}

func TestResolve(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, FormatJSON, Resolve(FormatJSON, f))
	assert.Equal(t, FormatText, Resolve(FormatAuto, f), "files are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(f))
}

func TestBuild(t *testing.T) {
	doc := buildDocument(t)

	require.Len(t, doc.Actions, 1)
	a := doc.Actions[0]
	assert.Equal(t, "qiime", doc.Program)
	assert.Equal(t, "qiime diversity alpha", a.Command)
	assert.Equal(t, []SlotDoc{{Name: "table", Option: "--i-table", Type: "FeatureTable[Frequency]"}}, a.Inputs)
	assert.Equal(t, []SlotDoc{
		{Name: "metric", Option: "--p-metric", Type: "Str"},
		{Name: "metadata", Option: "--m-metadata-file", Type: "Metadata"},
	}, a.Parameters)
	assert.Equal(t, []ExampleDoc{{
		Name:   "shannon_entropy",
		Header: "# shannon entropy",
		Text:   shannonText,
	}}, a.Examples)
}

func TestDocumentTextMatchesExampleDriver(t *testing.T) {
	actions := loadActions(t)
	doc, err := Build(actions, render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	want, err := render.Examples(actions[0], render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Equal(t, want, doc.Text())
}

func TestBuildHonorsRenderOptions(t *testing.T) {
	doc, err := Build(loadActions(t), render.WithLogger(zerolog.Nop()), render.WithProgram("q2"))
	require.NoError(t, err)
	assert.Equal(t, "q2 diversity alpha", doc.Actions[0].Command)
	assert.Contains(t, doc.Actions[0].Examples[0].Text, "q2 diversity alpha \\\n")
}

func TestBuildFailingExample(t *testing.T) {
	l := plugin.NewLoader()
	require.NoError(t, l.LoadBytes([]byte(`
plugin "p" {
  action "a" {
    example "broken" {
      use_action "p" "missing" {}
    }
  }
}
`), "defs.hcl"))

	_, err := Build(l.Registry().Actions(), render.WithLogger(zerolog.Nop()))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionNotFound))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "broken", details["example"])
	assert.Equal(t, "p.a", details["action"])

	var exErr *render.ExampleError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "broken", exErr.Name)
}

func TestDocumentTextJoinsAllActions(t *testing.T) {
	l := plugin.NewLoader()
	require.NoError(t, l.LoadBytes([]byte(`
plugin "p" {
  action "a" {
    example "first" {
      comment { text = "one" }
    }
  }
  action "b" {
    example "second_one" {
      comment { text = "two" }
    }
  }
}
`), "defs.hcl"))

	doc, err := Build(l.Registry().Actions(), render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Equal(t, "# first\n\n# one\n\n\n# second one\n\n# two\n", doc.Text())
}

func TestStructuredFormats(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteJSON(&buf))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, *doc, fromJSON)

	buf.Reset()
	require.NoError(t, doc.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "command: qiime diversity alpha")
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, *doc, fromYAML)
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown(buildDocument(t))
	require.NoError(t, err)

	want := "## diversity alpha\n\n" +
		"Alpha diversity\n\n" +
		"`qiime diversity alpha`\n\n" +
		"| Option | Type |\n" +
		"| --- | --- |\n" +
		"| `--i-table` | FeatureTable[Frequency] |\n" +
		"| `--p-metric` | Str |\n" +
		"| `--m-metadata-file` | Metadata |\n" +
		"| `--o-alpha-diversity` | SampleData[AlphaDiversity] |\n\n" +
		"### Shannon Entropy\n\n" +
		"```shell\n" + shannonText + "\n```\n"
	assert.Equal(t, want, md)
}

func TestHighlightWithoutColorKeepsText(t *testing.T) {
	var buf bytes.Buffer
	styles := DefaultStyles(&buf)
	text := "# a comment\n" + shannonText
	assert.Equal(t, text, styles.Highlight(text, "qiime"))
}

func TestLoadStylesRejectsBadYAML(t *testing.T) {
	_, err := LoadStyles([]byte("colors: ["), &bytes.Buffer{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutputFormat))
}

func TestWriteActionTable(t *testing.T) {
	var buf bytes.Buffer
	WriteActionTable(&buf, loadActions(t), false)

	out := buf.String()
	assert.Contains(t, out, "PLUGIN")
	assert.Contains(t, out, "EXAMPLES")
	assert.Contains(t, out, "diversity")
	assert.Contains(t, out, "shannon_entropy")
	assert.NotContains(t, out, "╭")

	buf.Reset()
	WriteActionTable(&buf, loadActions(t), true)
	assert.Contains(t, buf.String(), "╭")
}

func TestWriter(t *testing.T) {
	doc := buildDocument(t)

	tests := []struct {
		format Format
		check  func(t *testing.T, out string)
	}{
		{FormatText, func(t *testing.T, out string) {
			assert.Equal(t, doc.Text(), out)
		}},
		{FormatAuto, func(t *testing.T, out string) {
			assert.Equal(t, doc.Text(), out)
		}},
		{FormatJSON, func(t *testing.T, out string) {
			assert.Contains(t, out, `"command": "qiime diversity alpha"`)
		}},
		{FormatYAML, func(t *testing.T, out string) {
			assert.Contains(t, out, "plugin: diversity")
		}},
		{FormatMarkdown, func(t *testing.T, out string) {
			assert.Contains(t, out, "### Shannon Entropy")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, tt.format, MarkdownRenderer{Style: "notty"})
			require.NoError(t, w.WriteExamples(doc))
			tt.check(t, buf.String())
		})
	}
}

func TestWriteDocs(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, FormatText, MarkdownRenderer{}).WriteDocs(doc))
	assert.Contains(t, buf.String(), "## diversity alpha")

	buf.Reset()
	require.NoError(t, NewWriter(&buf, FormatTerminal, MarkdownRenderer{Style: "notty", Width: 80}).WriteDocs(doc))
	assert.Contains(t, buf.String(), "diversity alpha")
	assert.Contains(t, buf.String(), "--p-metric shannon")
}
