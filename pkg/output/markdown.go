package output

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/charmbracelet/glamour"
)

const markdownTemplate = `{{- range $i, $a := .Actions -}}
{{- if $i }}

{{ end -}}
## {{ $a.Plugin }} {{ $a.Action }}
{{- with $a.Description }}

{{ . | trim }}
{{- end }}

` + "`{{ $a.Command }}`" + `
{{- if or $a.Inputs $a.Parameters $a.Outputs }}

| Option | Type |
| --- | --- |
{{- range concat $a.Inputs $a.Parameters $a.Outputs }}
| ` + "`{{ .Option }}`" + ` | {{ .Type | replace "|" "\\|" }} |
{{- end }}
{{- end }}
{{- range $a.Examples }}

### {{ .Name | replace "_" " " | title }}

` + "```shell" + `
{{ .Text }}
` + "```" + `
{{- end }}
{{- end }}
`

var markdownTmpl = template.Must(template.New("docs").Funcs(sprig.TxtFuncMap()).Parse(markdownTemplate))

// Markdown renders doc as Markdown documentation
func Markdown(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, doc); err != nil {
		return "", errors.Wrap(err, errors.ErrOutputFormat, "failed to render markdown")
	}
	return buf.String(), nil
}

// MarkdownRenderer renders Markdown for terminals with glamour
type MarkdownRenderer struct {
	Style string // "dark", "light", "notty", "auto" or a path to a style file
	Width int    // wrap width, 0 leaves glamour's default
}

// Render converts markdown to styled terminal text
func (r MarkdownRenderer) Render(markdown string) (string, error) {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrOutputFormat, "failed to create markdown renderer")
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrOutputFormat, "failed to render markdown")
	}
	return rendered, nil
}
