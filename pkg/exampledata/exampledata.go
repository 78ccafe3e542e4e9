// Package exampledata writes the data behind a replayed example to disk so
// the rendered commands can be run against it.
package exampledata

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/logging"
	"github.com/arthur-debert/q2usage/pkg/plugin"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// Options controls Materialize
type Options struct {
	// DryRun plans the files without writing anything
	DryRun bool
	// Mode is the permission of written files, 0644 when zero
	Mode os.FileMode
}

// File is one planned or written example data file
type File struct {
	Ref  string          `json:"ref" yaml:"ref"`
	Kind plugin.DataKind `json:"kind" yaml:"kind"`
	Path string          `json:"path" yaml:"path"`
	Size int             `json:"size" yaml:"size"`

	content []byte
}

// Plan maps example data, as returned by render.Renderer.GetExampleData,
// to the files it would be written to under dir, sorted by reference.
func Plan(data map[string]any, dir string) ([]File, error) {
	refs := make([]string, 0, len(data))
	for ref := range data {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	files := make([]File, 0, len(refs))
	for _, ref := range refs {
		datum, ok := data[ref].(*plugin.Datum)
		if !ok || datum == nil {
			return nil, errors.Newf(errors.ErrDataMaterialize, "example data %s has unsupported type %T", ref, data[ref]).
				WithDetail("ref", ref)
		}
		files = append(files, File{
			Ref:     ref,
			Kind:    datum.Kind,
			Path:    filepath.Join(dir, datum.Filename()),
			Size:    len(datum.Content),
			content: datum.Content,
		})
	}
	return files, nil
}

// Materialize writes every datum into dir as <ref>.qza or <ref>.tsv. All
// files are written in one synthfs pipeline, rolled back if any fails.
func Materialize(ctx context.Context, data map[string]any, dir string, opts Options) ([]File, error) {
	logger := logging.WithFields(map[string]interface{}{
		"component": "exampledata",
		"dryRun":    opts.DryRun,
	})

	files, err := Plan(data, dir)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		for _, f := range files {
			logger.Info().Str("path", f.Path).Int("size", f.Size).Msg("Would write example data")
		}
		return files, nil
	}
	if len(files) == 0 {
		return files, nil
	}

	mode := opts.Mode
	if mode == 0 {
		mode = 0644
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDataMaterialize, "cannot resolve %s", dir).
			WithDetail("path", dir)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDataMaterialize, "cannot create %s", dir).
			WithDetail("path", dir)
	}

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(files))
	for _, f := range files {
		id := "data-" + f.Ref
		ops = append(ops, sfs.CreateFileWithID(id, filepath.Join(absDir, filepath.Base(f.Path)), f.content, mode))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	logger.Info().
		Str("dir", dir).
		Int("operationCount", len(ops)).
		Msg("Writing example data")

	osfs := filesystem.NewOSFileSystem("/")
	fs := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()
	if _, err := synthfs.RunWithOptions(ctx, fs, options, ops...); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDataMaterialize, "failed to write example data to %s", dir).
			WithDetail("path", dir)
	}
	return files, nil
}
