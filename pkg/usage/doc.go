// Package usage defines the boundary between a workflow-plugin framework and
// the code that turns its recorded usage examples into something readable.
//
// A usage example is replayed against a Usage implementation by calling its
// hooks in order: data initialization first, then one or more action
// invocations, optionally interleaved with comments. Each implementation
// decides what the hooks produce; the CLI renderer in pkg/render turns them
// into shell commands.
//
// The package also holds the framework-side value model (Value, Bindings,
// Record), action signatures and the type predicates used to classify
// declared types as metadata or visualizations.
package usage
