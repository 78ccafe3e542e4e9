// Package output presents rendered usage examples.
//
// A Document collects the rendered examples of a set of actions. It can be
// written as plain text, as highlighted terminal text (lipgloss styles loaded
// from styles.yaml), as JSON or YAML, or as Markdown documentation which is
// rendered with glamour when shown on a terminal.
package output
