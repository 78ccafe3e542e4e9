package output

import (
	"fmt"
	"io"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/logging"
)

// Writer writes documents in one resolved format
type Writer struct {
	out      io.Writer
	format   Format
	markdown MarkdownRenderer
	styles   *Styles
}

// NewWriter creates a Writer. format must already be resolved: FormatAuto is
// treated as FormatText.
func NewWriter(out io.Writer, format Format, markdown MarkdownRenderer) *Writer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Writer{
		out:      out,
		format:   format,
		markdown: markdown,
		styles:   DefaultStyles(out),
	}
}

// Format returns the format the writer produces
func (w *Writer) Format() Format {
	return w.format
}

// WriteExamples writes the rendered examples of doc. Text and terminal output
// carry only the transcripts; the structured formats carry the whole document.
func (w *Writer) WriteExamples(doc *Document) error {
	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", w.format.String()).
		Int("actions", len(doc.Actions)).
		Msg("Writing examples")

	switch w.format {
	case FormatText:
		_, err := fmt.Fprint(w.out, doc.Text())
		return err
	case FormatTerminal:
		_, err := fmt.Fprint(w.out, w.styles.HighlightDocument(doc))
		return err
	case FormatJSON:
		return doc.WriteJSON(w.out)
	case FormatYAML:
		return doc.WriteYAML(w.out)
	case FormatMarkdown:
		md, err := Markdown(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w.out, md)
		return err
	}
	return errors.Newf(errors.ErrOutputFormat, "unsupported format %s", w.format)
}

// WriteDocs writes doc as Markdown documentation, styled with glamour on
// terminals. The structured formats write the document itself.
func (w *Writer) WriteDocs(doc *Document) error {
	switch w.format {
	case FormatJSON:
		return doc.WriteJSON(w.out)
	case FormatYAML:
		return doc.WriteYAML(w.out)
	}

	md, err := Markdown(doc)
	if err != nil {
		return err
	}
	if w.format == FormatTerminal {
		if md, err = w.markdown.Render(md); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(w.out, md)
	return err
}
