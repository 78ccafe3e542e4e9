package render

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/q2usage/pkg/usage"
)

// ExampleSet is anything that declares named usage examples, in order
type ExampleSet interface {
	Examples() []usage.NamedExample
}

// Block is one rendered example of a set
type Block struct {
	Name   string
	Header string
	Text   string
}

// ExampleError names the example of a set whose replay failed
type ExampleError struct {
	Name string
	Err  error
}

func (e *ExampleError) Error() string { return fmt.Sprintf("example %s: %v", e.Name, e.Err) }

func (e *ExampleError) Unwrap() error { return e.Err }

// Header returns the comment line introducing an example in combined output
func Header(name string) string {
	return strings.ReplaceAll("# "+name, "_", " ")
}

// RenderExample replays a single example against a fresh Renderer and
// returns its transcript.
func RenderExample(example usage.Example, opts ...Option) (string, error) {
	r := New(opts...)
	if err := example(r); err != nil {
		return "", err
	}
	return r.Render(), nil
}

// RenderSet renders every example of set in declaration order, each against
// its own Renderer. The first failing example stops the pass and comes back
// as an *ExampleError.
func RenderSet(set ExampleSet, opts ...Option) ([]Block, error) {
	examples := set.Examples()
	blocks := make([]Block, 0, len(examples))
	for _, ex := range examples {
		text, err := RenderExample(ex.Example, opts...)
		if err != nil {
			return nil, &ExampleError{Name: ex.Name, Err: err}
		}
		blocks = append(blocks, Block{Name: ex.Name, Header: Header(ex.Name), Text: text})
	}
	return blocks, nil
}

// Join lays blocks out as combined output: each header, then its transcript
// with a trailing newline, separated by blank lines.
func Join(blocks []Block) string {
	parts := make([]string, 0, 2*len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Header, b.Text+"\n")
	}
	return strings.Join(parts, "\n\n")
}

// Examples renders every example of set and joins them into one text
func Examples(set ExampleSet, opts ...Option) (string, error) {
	blocks, err := RenderSet(set, opts...)
	if err != nil {
		return "", err
	}
	return Join(blocks), nil
}
