package usage

// Factory lazily produces the example data behind a reference
type Factory func() (any, error)

// CollectionKind names the container type of an initialized data collection
type CollectionKind string

const (
	// CollectionList is an ordered collection
	CollectionList CollectionKind = "list"
	// CollectionDict is a keyed collection
	CollectionDict CollectionKind = "dict"
)

// Record is what the framework keeps for every named value an example creates.
// Ref is the record's reference identity, Value is whatever the Usage hook
// returned for it.
type Record struct {
	Ref   string
	Value Value
}

// Usage is the set of hooks a usage example is replayed against.
type Usage interface {
	// InitData registers example data under ref.
	InitData(ref string, factory Factory) Value

	// InitMetadata registers example metadata under ref.
	InitMetadata(ref string, factory Factory) Value

	// InitDataCollection combines previously initialized records into one collection.
	InitDataCollection(ref string, kind CollectionKind, records ...Record) Value

	// MergeMetadata combines several metadata records into one logical reference.
	MergeMetadata(ref string, records ...Record) Value

	// GetMetadataColumn selects a single column of a metadata record.
	GetMetadataColumn(column string, record Record) Value

	// Comment records free text alongside the example.
	Comment(text string)

	// Action invokes an action with the given input and output bindings and
	// returns the output bindings the framework should turn into records.
	Action(action ActionDescriptor, inputs Bindings, outputs Bindings) (Bindings, error)

	// AssertHasLineMatching checks that a produced artifact contains a line
	// matching expression.
	AssertHasLineMatching(ref, label, path, expression string)
}

// Example replays one recorded scenario against a Usage
type Example func(use Usage) error

// NamedExample pairs an example with the name it was declared under
type NamedExample struct {
	Name    string
	Example Example
}
