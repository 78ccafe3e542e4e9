package usage

import "strings"

// TypeSpec is a declared framework type as written by the plugin author,
// for example "FeatureTable[Frequency]", "Metadata" or "Int % Range(1, None)".
type TypeSpec string

// Base returns the leading type name without fields or predicates
func (t TypeSpec) Base() string {
	s := strings.TrimSpace(string(t))
	if i := strings.IndexAny(s, "[ %"); i >= 0 {
		s = s[:i]
	}
	return s
}

// String implements fmt.Stringer
func (t TypeSpec) String() string {
	return string(t)
}

// IsMetadataType reports whether a parameter type is metadata (a whole table
// or a single column of one) rather than an ordinary parameter.
func IsMetadataType(t TypeSpec) bool {
	switch t.Base() {
	case "Metadata", "MetadataColumn":
		return true
	}
	return false
}

// IsVisualizationType reports whether an output type is a visualization
func IsVisualizationType(t TypeSpec) bool {
	return t.Base() == "Visualization"
}

// Slot is one named, typed entry of an action signature
type Slot struct {
	Name string
	Type TypeSpec
}

// Signature declares an action's named inputs, parameters and outputs.
// Slots keep their declaration order.
type Signature struct {
	Inputs     []Slot
	Parameters []Slot
	Outputs    []Slot
}

// Input returns the input slot called name
func (s Signature) Input(name string) (Slot, bool) {
	return lookup(s.Inputs, name)
}

// Parameter returns the parameter slot called name
func (s Signature) Parameter(name string) (Slot, bool) {
	return lookup(s.Parameters, name)
}

// Output returns the output slot called name
func (s Signature) Output(name string) (Slot, bool) {
	return lookup(s.Outputs, name)
}

func lookup(slots []Slot, name string) (Slot, bool) {
	for _, slot := range slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

// ActionInfo identifies the callable behind an action
type ActionInfo struct {
	PluginID string
	ID       string
}

// ActionDescriptor is the framework's handle on an action. GetAction resolves
// it into the callable's identity and its signature.
type ActionDescriptor interface {
	GetAction() (ActionInfo, Signature, error)
}
