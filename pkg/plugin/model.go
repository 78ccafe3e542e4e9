package plugin

import (
	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/usage"
)

// Registry holds every plugin loaded from a set of definition files
type Registry struct {
	plugins []*Plugin
	byID    map[string]*Plugin
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Plugin)}
}

// Plugins returns the plugins in load order
func (r *Registry) Plugins() []*Plugin {
	return r.plugins
}

// Plugin returns the plugin with the given id
func (r *Registry) Plugin(id string) (*Plugin, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errors.Newf(errors.ErrPluginNotFound, "no plugin %q", id).
			WithDetail("plugin", id)
	}
	return p, nil
}

// Action returns the action actionID of plugin pluginID
func (r *Registry) Action(pluginID, actionID string) (*Action, error) {
	p, err := r.Plugin(pluginID)
	if err != nil {
		return nil, err
	}
	a, ok := p.byID[actionID]
	if !ok {
		return nil, errors.Newf(errors.ErrActionNotFound, "plugin %q has no action %q", pluginID, actionID).
			WithDetail("plugin", pluginID).
			WithDetail("action", actionID)
	}
	return a, nil
}

// Actions returns every action of every plugin, in load order
func (r *Registry) Actions() []*Action {
	var out []*Action
	for _, p := range r.plugins {
		out = append(out, p.actions...)
	}
	return out
}

func (r *Registry) add(p *Plugin) error {
	if _, exists := r.byID[p.ID]; exists {
		return errors.Newf(errors.ErrPluginInvalid, "plugin %q is defined more than once", p.ID).
			WithDetail("plugin", p.ID)
	}
	r.byID[p.ID] = p
	r.plugins = append(r.plugins, p)
	return nil
}

// Plugin is a named group of actions
type Plugin struct {
	ID          string
	Description string
	Source      string

	actions []*Action
	byID    map[string]*Action
}

// Actions returns the plugin's actions in declaration order
func (p *Plugin) Actions() []*Action {
	return p.actions
}

// Action is one invocable operation of a plugin
type Action struct {
	PluginID    string
	ID          string
	Description string
	Signature   usage.Signature

	examples []*example
}

var _ usage.ActionDescriptor = (*Action)(nil)

// GetAction implements usage.ActionDescriptor
func (a *Action) GetAction() (usage.ActionInfo, usage.Signature, error) {
	return usage.ActionInfo{PluginID: a.PluginID, ID: a.ID}, a.Signature, nil
}

// Examples returns the action's recorded examples in declaration order
func (a *Action) Examples() []usage.NamedExample {
	out := make([]usage.NamedExample, len(a.examples))
	for i, ex := range a.examples {
		out[i] = usage.NamedExample{Name: ex.name, Example: ex.replay}
	}
	return out
}

// Example returns the example called name
func (a *Action) Example(name string) (usage.Example, error) {
	for _, ex := range a.examples {
		if ex.name == name {
			return ex.replay, nil
		}
	}
	return nil, errors.Newf(errors.ErrExampleNotFound, "action %s.%s has no example %q", a.PluginID, a.ID, name).
		WithDetail("example", name)
}

// FullName is "plugin.action"
func (a *Action) FullName() string {
	return a.PluginID + "." + a.ID
}

// ActionRef names an action to be resolved against a Registry when an
// example invokes it.
type ActionRef struct {
	Registry *Registry
	PluginID string
	ActionID string
}

var _ usage.ActionDescriptor = ActionRef{}

// GetAction implements usage.ActionDescriptor
func (ref ActionRef) GetAction() (usage.ActionInfo, usage.Signature, error) {
	a, err := ref.Registry.Action(ref.PluginID, ref.ActionID)
	if err != nil {
		return usage.ActionInfo{}, usage.Signature{}, err
	}
	return a.GetAction()
}

// DataKind tells what sort of example data a Datum holds
type DataKind string

const (
	// KindData is an artifact
	KindData DataKind = "data"
	// KindMetadata is a metadata table
	KindMetadata DataKind = "metadata"
)

// Datum is materialized example data, as returned by the factories of
// init_data and init_metadata steps.
type Datum struct {
	Ref     string
	Kind    DataKind
	Content []byte
}

// Filename is the file the datum is known as on the command line
func (d *Datum) Filename() string {
	if d.Kind == KindMetadata {
		return d.Ref + ".tsv"
	}
	return d.Ref + ".qza"
}
