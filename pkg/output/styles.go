package output

import (
	_ "embed"
	"io"
	"regexp"
	"strings"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// StylesConfig represents the complete styles configuration
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles bound to one renderer
type Styles struct {
	registry map[string]lipgloss.Style
}

// LoadStyles builds Styles from a YAML definition for output written to w
func LoadStyles(data []byte, w io.Writer) (*Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrOutputFormat, "failed to parse styles")
	}

	renderer := lipgloss.NewRenderer(w)
	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	s := &Styles{registry: make(map[string]lipgloss.Style, len(config.Styles))}
	for name, def := range config.Styles {
		style := renderer.NewStyle().
			Bold(def.Bold).
			Italic(def.Italic).
			Underline(def.Underline)
		if c, ok := colors[def.Foreground]; ok {
			style = style.Foreground(c)
		}
		if c, ok := colors[def.Background]; ok {
			style = style.Background(c)
		}
		s.registry[name] = style
	}
	return s, nil
}

// DefaultStyles returns the embedded styles for output written to w
func DefaultStyles(w io.Writer) *Styles {
	s, err := LoadStyles(defaultStyles, w)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the named style, or an unstyled one
func (s *Styles) Get(name string) lipgloss.Style {
	if style, ok := s.registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

var flagPattern = regexp.MustCompile(`^(\s*)(--[a-z]-[a-z0-9-]+)(\s+)(.*)$`)

// Highlight styles a rendered transcript line by line. Example headers and
// comments, base commands and option lines each get their own style; any
// other line is left as is.
func (s *Styles) Highlight(text, program string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body, cont := strings.CutSuffix(line, ` \`)
		var styled string
		switch {
		case strings.HasPrefix(body, "# "):
			styled = s.Get("Comment").Render(body)
		case strings.HasPrefix(body, program+" "):
			styled = s.Get("Command").Render(body)
		default:
			if m := flagPattern.FindStringSubmatch(body); m != nil {
				styled = m[1] + s.Get("Flag").Render(m[2]) + m[3] + s.Get("Ref").Render(m[4])
			} else {
				styled = body
			}
		}
		if cont {
			styled += s.Get("Continuation").Render(` \`)
		}
		lines[i] = styled
	}
	return strings.Join(lines, "\n")
}

// HighlightDocument styles each example of doc under a Header-styled title
func (s *Styles) HighlightDocument(doc *Document) string {
	var parts []string
	for _, a := range doc.Actions {
		for _, ex := range a.Examples {
			parts = append(parts, s.Get("Header").Render(ex.Header), s.Highlight(ex.Text, doc.Program)+"\n")
		}
	}
	return strings.Join(parts, "\n\n")
}
