package render

import (
	"github.com/arthur-debert/q2usage/pkg/cliname"
	"github.com/arthur-debert/q2usage/pkg/logging"
	"github.com/arthur-debert/q2usage/pkg/usage"
	"github.com/rs/zerolog"
)

// Defaults for the rendered command layout
const (
	DefaultProgram = "qiime"
	DefaultIndent  = 4
	DefaultWidth   = 70
)

// Options controls how commands are laid out and how types are classified
type Options struct {
	// Program is the top-level executable every command starts with
	Program string
	// Indent is the number of spaces in front of each option line
	Indent int
	// Width is the column at which option lines are wrapped
	Width int

	// IsMetadata decides whether a parameter type is metadata
	IsMetadata func(usage.TypeSpec) bool
	// IsVisualization decides whether an output type is a visualization
	IsVisualization func(usage.TypeSpec) bool
	// Normalize turns identifiers into command-line tokens
	Normalize func(string) string

	Logger zerolog.Logger
}

// Option configures a Renderer
type Option func(*Options)

// DefaultOptions returns the layout and collaborators used when no options are given
func DefaultOptions() Options {
	return Options{
		Program:         DefaultProgram,
		Indent:          DefaultIndent,
		Width:           DefaultWidth,
		IsMetadata:      usage.IsMetadataType,
		IsVisualization: usage.IsVisualizationType,
		Normalize:       cliname.ToCLIName,
		Logger:          logging.GetLogger("render"),
	}
}

// WithProgram sets the top-level program name
func WithProgram(program string) Option {
	return func(o *Options) { o.Program = program }
}

// WithIndent sets the indentation of option lines
func WithIndent(indent int) Option {
	return func(o *Options) { o.Indent = indent }
}

// WithWidth sets the wrap width of option lines
func WithWidth(width int) Option {
	return func(o *Options) { o.Width = width }
}

// WithMetadataPredicate replaces the metadata type predicate
func WithMetadataPredicate(fn func(usage.TypeSpec) bool) Option {
	return func(o *Options) { o.IsMetadata = fn }
}

// WithVisualizationPredicate replaces the visualization type predicate
func WithVisualizationPredicate(fn func(usage.TypeSpec) bool) Option {
	return func(o *Options) { o.IsVisualization = fn }
}

// WithNormalizer replaces the identifier normalizer
func WithNormalizer(fn func(string) string) Option {
	return func(o *Options) { o.Normalize = fn }
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// NewOptions applies opts on top of DefaultOptions
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Flag builds the long option for a slot, e.g. ("p", "sampling_depth")
// gives "--p-sampling-depth".
func (o Options) Flag(prefix, name string) string {
	return "--" + prefix + "-" + o.Normalize(name)
}
