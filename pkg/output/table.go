package output

import (
	"io"
	"strings"

	"github.com/arthur-debert/q2usage/pkg/plugin"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteActionTable lists actions with their slot counts and example names.
// A styled table uses rounded borders and colored headers; a plain one has
// neither, for piping.
func WriteActionTable(w io.Writer, actions []*plugin.Action, styled bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	headers := []string{"PLUGIN", "ACTION", "INPUTS", "PARAMETERS", "OUTPUTS", "EXAMPLES"}
	row := make(table.Row, len(headers))
	for i, h := range headers {
		if styled {
			row[i] = text.FgHiCyan.Sprint(h)
		} else {
			row[i] = h
		}
	}
	t.AppendHeader(row)

	if styled {
		t.SetStyle(table.StyleRounded)
	} else {
		style := table.StyleDefault
		style.Options = table.OptionsNoBordersAndSeparators
		style.Format.Header = text.FormatDefault
		t.SetStyle(style)
	}

	for _, a := range actions {
		names := make([]string, 0, len(a.Examples()))
		for _, ex := range a.Examples() {
			names = append(names, ex.Name)
		}
		t.AppendRow(table.Row{
			a.PluginID,
			a.ID,
			len(a.Signature.Inputs),
			len(a.Signature.Parameters),
			len(a.Signature.Outputs),
			strings.Join(names, ", "),
		})
	}
	t.Render()
}
