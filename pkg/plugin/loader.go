package plugin

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/logging"
	"github.com/arthur-debert/q2usage/pkg/usage"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FileExtension is the extension of plugin definition files
const FileExtension = ".hcl"

// hclFile is the top-level structure of a definition file
type hclFile struct {
	Plugins []*hclPlugin `hcl:"plugin,block"`
}

type hclPlugin struct {
	ID          string       `hcl:"id,label"`
	Description string       `hcl:"description,optional"`
	Actions     []*hclAction `hcl:"action,block"`
}

type hclAction struct {
	ID          string        `hcl:"id,label"`
	Description string        `hcl:"description,optional"`
	Inputs      []*hclSlot    `hcl:"input,block"`
	Parameters  []*hclSlot    `hcl:"parameter,block"`
	Outputs     []*hclSlot    `hcl:"output,block"`
	Examples    []*hclExample `hcl:"example,block"`
}

type hclSlot struct {
	Name        string `hcl:"name,label"`
	Type        string `hcl:"type"`
	Description string `hcl:"description,optional"`
}

type hclExample struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Loader parses plugin definition files into a Registry
type Loader struct {
	parser   *hclparse.Parser
	registry *Registry
}

// NewLoader creates a Loader with an empty Registry
func NewLoader() *Loader {
	return &Loader{
		parser:   hclparse.NewParser(),
		registry: NewRegistry(),
	}
}

// Registry returns everything loaded so far
func (l *Loader) Registry() *Registry {
	return l.registry
}

// LoadPaths loads every definition file found under paths. Directories are
// searched recursively for *.hcl files.
func LoadPaths(ctx context.Context, paths ...string) (*Registry, error) {
	logger := logging.GetLogger("plugin.loader")
	done := logging.LogOperationStart(logger, "load plugins")
	defer done()

	files, err := findDefinitionFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn().Strs("paths", paths).Msg("No plugin definition files found")
	}

	l := NewLoader()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.LoadFile(file); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("files", len(files)).
		Int("plugins", len(l.registry.plugins)).
		Msg("Loaded plugin definitions")
	return l.registry, nil
}

// LoadFile parses one definition file into the loader's registry
func (l *Loader) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginNotFound, "cannot read plugin file %s", path).
			WithDetail("path", path)
	}
	return l.LoadBytes(src, path)
}

// LoadBytes parses definition source; filename is used in diagnostics and
// to resolve example data sources relative to it.
func (l *Loader) LoadBytes(src []byte, filename string) error {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return errors.Wrapf(diags, errors.ErrPluginParse, "failed to parse plugin file %s", filename).
			WithDetail("path", filename)
	}

	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return errors.Wrapf(diags, errors.ErrPluginParse, "failed to decode plugin file %s", filename).
			WithDetail("path", filename)
	}

	baseDir := filepath.Dir(filename)
	for _, hp := range root.Plugins {
		p, err := l.translatePlugin(hp, filename, baseDir)
		if err != nil {
			return err
		}
		if err := l.registry.add(p); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) translatePlugin(hp *hclPlugin, filename, baseDir string) (*Plugin, error) {
	p := &Plugin{
		ID:          hp.ID,
		Description: hp.Description,
		Source:      filename,
		byID:        make(map[string]*Action),
	}

	for _, ha := range hp.Actions {
		if _, exists := p.byID[ha.ID]; exists {
			return nil, errors.Newf(errors.ErrPluginInvalid, "action %q of plugin %q is defined more than once", ha.ID, hp.ID).
				WithDetail("plugin", hp.ID).
				WithDetail("action", ha.ID)
		}
		a, err := l.translateAction(hp.ID, ha, baseDir)
		if err != nil {
			return nil, err
		}
		p.byID[a.ID] = a
		p.actions = append(p.actions, a)
	}
	return p, nil
}

func (l *Loader) translateAction(pluginID string, ha *hclAction, baseDir string) (*Action, error) {
	a := &Action{
		PluginID:    pluginID,
		ID:          ha.ID,
		Description: ha.Description,
		Signature: usage.Signature{
			Inputs:     translateSlots(ha.Inputs),
			Parameters: translateSlots(ha.Parameters),
			Outputs:    translateSlots(ha.Outputs),
		},
	}

	if err := checkSlotNames(a); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, he := range ha.Examples {
		if seen[he.Name] {
			return nil, errors.Newf(errors.ErrPluginInvalid, "example %q of action %s is defined more than once", he.Name, a.FullName()).
				WithDetail("example", he.Name)
		}
		seen[he.Name] = true

		steps, diags := parseSteps(he.Body)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, errors.ErrPluginParse, "invalid example %q of action %s", he.Name, a.FullName()).
				WithDetail("example", he.Name)
		}
		a.examples = append(a.examples, &example{
			name:     he.Name,
			steps:    steps,
			registry: l.registry,
			baseDir:  baseDir,
		})
	}
	return a, nil
}

func translateSlots(in []*hclSlot) []usage.Slot {
	out := make([]usage.Slot, len(in))
	for i, s := range in {
		out[i] = usage.Slot{Name: s.Name, Type: usage.TypeSpec(s.Type)}
	}
	return out
}

// checkSlotNames rejects a name used by more than one slot of a signature
func checkSlotNames(a *Action) error {
	seen := make(map[string]bool)
	groups := [][]usage.Slot{a.Signature.Inputs, a.Signature.Parameters, a.Signature.Outputs}
	for _, slots := range groups {
		for _, s := range slots {
			if seen[s.Name] {
				return errors.Newf(errors.ErrPluginInvalid, "action %s declares %q more than once", a.FullName(), s.Name).
					WithDetail("slot", s.Name)
			}
			seen[s.Name] = true
		}
	}
	return nil
}

// findDefinitionFiles expands directories into the sorted *.hcl files below them
func findDefinitionFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginNotFound, "cannot access %s", root).
				WithDetail("path", root)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == FileExtension {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginNotFound, "cannot search %s", root).
				WithDetail("path", root)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
