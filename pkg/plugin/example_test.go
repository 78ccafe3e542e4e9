package plugin

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/render"
	"github.com/arthur-debert/q2usage/pkg/usage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a usage.Usage that logs each hook call
type recorder struct {
	calls []string
	data  map[string]usage.Factory
}

func newRecorder() *recorder {
	return &recorder{data: make(map[string]usage.Factory)}
}

func (r *recorder) InitData(ref string, factory usage.Factory) usage.Value {
	r.calls = append(r.calls, "init_data "+ref)
	r.data[ref] = factory
	return usage.String(ref)
}

func (r *recorder) InitMetadata(ref string, factory usage.Factory) usage.Value {
	r.calls = append(r.calls, "init_metadata "+ref)
	r.data[ref] = factory
	return usage.String(ref)
}

func (r *recorder) InitDataCollection(ref string, kind usage.CollectionKind, records ...usage.Record) usage.Value {
	r.calls = append(r.calls, fmt.Sprintf("init_data_collection %s %s %v", ref, kind, refsOf(records)))
	return usage.SortedRefs(records...)
}

func (r *recorder) MergeMetadata(ref string, records ...usage.Record) usage.Value {
	r.calls = append(r.calls, fmt.Sprintf("merge_metadata %s %v", ref, refsOf(records)))
	return usage.SortedRefs(records...)
}

func (r *recorder) GetMetadataColumn(column string, record usage.Record) usage.Value {
	r.calls = append(r.calls, fmt.Sprintf("get_metadata_column %s %s", column, record.Ref))
	return usage.ColumnRef{Ref: usage.String(record.Ref), Column: column}
}

func (r *recorder) Comment(text string) {
	r.calls = append(r.calls, "comment "+text)
}

func (r *recorder) Action(action usage.ActionDescriptor, inputs, outputs usage.Bindings) (usage.Bindings, error) {
	info, _, err := action.GetAction()
	if err != nil {
		return nil, err
	}
	r.calls = append(r.calls, fmt.Sprintf("action %s.%s %v %v", info.PluginID, info.ID, inputs.Names(), outputs.Names()))
	return outputs, nil
}

func (r *recorder) AssertHasLineMatching(ref, label, path, expression string) {
	r.calls = append(r.calls, fmt.Sprintf("assert %s %s %s %s", ref, label, path, expression))
}

func refsOf(records []usage.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Ref
	}
	return out
}

func replayExample(t *testing.T, reg *Registry, pluginID, actionID, name string) *recorder {
	t.Helper()
	a, err := reg.Action(pluginID, actionID)
	require.NoError(t, err)
	ex, err := a.Example(name)
	require.NoError(t, err)

	rec := newRecorder()
	require.NoError(t, ex(rec))
	return rec
}

func TestReplayCallsHooksInOrder(t *testing.T) {
	reg := loadString(t, diversityHCL)
	rec := replayExample(t, reg, "diversity", "beta_group_significance", "by_body_site")

	assert.Equal(t, []string{
		"init_data dm",
		"init_metadata md",
		"get_metadata_column body-site md",
		"action diversity.beta_group_significance [distance_matrix metadata] [visualization]",
		"assert site_significance significance data/index.html PERMANOVA",
	}, rec.calls)
}

func TestReplayCollectionsAndMerges(t *testing.T) {
	reg := loadString(t, `
plugin "feature_table" {
  action "merge" {
    input "tables" { type = "List[FeatureTable[Frequency]]" }
    parameter "metadata" { type = "Metadata" }
    parameter "overlap_method" { type = "Str" }
    output "merged_table" { type = "FeatureTable[Frequency]" }

    example "merge_two" {
      init_data "table_b" {}
      init_data "table_a" {}
      init_data_collection "tables" {
        kind    = "dict"
        records = [table_b, table_a]
      }
      init_metadata "md2" {}
      init_metadata "md1" {}
      merge_metadata "merged_md" {
        records = [md2, md1]
      }
      use_action "feature_table" "merge" {
        inputs {
          overlap_method = "sum"
          tables         = tables
          metadata       = merged_md
        }
        outputs {
          merged_table = "merged"
        }
      }
    }
  }
}
`)
	a, err := reg.Action("feature_table", "merge")
	require.NoError(t, err)

	rec := replayExample(t, reg, "feature_table", "merge", "merge_two")
	assert.Equal(t, "init_data_collection tables dict [table_b table_a]", rec.calls[2])
	assert.Equal(t, "merge_metadata merged_md [md2 md1]", rec.calls[5])
	assert.Equal(t, "action feature_table.merge [overlap_method tables metadata] [merged_table]", rec.calls[6],
		"bindings keep source order")

	out, err := render.Examples(a, render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	want := "# merge two\n\n" +
		"qiime feature-table merge \\\n" +
		"    --i-tables table_a.qza \\\n" +
		"    --i-tables table_b.qza \\\n" +
		"    --p-overlap-method sum \\\n" +
		"    --m-metadata-file md1.tsv \\\n" +
		"    --m-metadata-file md2.tsv \\\n" +
		"    --o-merged-table merged.qza\n"
	assert.Equal(t, want, out)
}

func TestRenderLoadedExamples(t *testing.T) {
	reg := loadString(t, diversityHCL)
	a, err := reg.Action("diversity", "core_metrics")
	require.NoError(t, err)

	out, err := render.Examples(a, render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	want := "# basic usage\n\n" +
		"# Run core metrics\n" +
		"qiime diversity core-metrics \\\n" +
		"    --i-table table.qza \\\n" +
		"    --p-sampling-depth 500 \\\n" +
		"    --m-metadata-file sample_md.tsv \\\n" +
		"    --o-rarefied-table rarefied.qza \\\n" +
		"    --o-emperor emperor_plot.qzv\n"
	assert.Equal(t, want, out)
}

func TestRenderColumnSelection(t *testing.T) {
	reg := loadString(t, diversityHCL)
	a, err := reg.Action("diversity", "beta_group_significance")
	require.NoError(t, err)
	ex, err := a.Example("by_body_site")
	require.NoError(t, err)

	out, err := render.RenderExample(ex, render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	want := "qiime diversity beta-group-significance \\\n" +
		"    --i-distance-matrix dm.qza \\\n" +
		"    --m-metadata-file md.tsv \\\n" +
		"    --m-metadata-column 'body-site' \\\n" +
		"    --o-visualization site_significance.qzv"
	assert.Equal(t, want, out)
}

func TestParameterValueKinds(t *testing.T) {
	reg := loadString(t, `
plugin "p" {
  action "a" {
    parameter "depth" { type = "Int" }
    parameter "ratio" { type = "Float" }
    parameter "flag" { type = "Bool" }
    parameter "levels" { type = "List[Int]" }
    parameter "inline" { type = "Metadata" }

    example "kinds" {
      use_action "p" "a" {
        inputs {
          depth  = 10
          ratio  = 0.5
          flag   = true
          levels = [3, 1, 2]
          inline = { ref = "md", column = "site" }
        }
      }
    }
  }
}
`)
	a, err := reg.Action("p", "a")
	require.NoError(t, err)
	ex, err := a.Example("kinds")
	require.NoError(t, err)

	out, err := render.RenderExample(ex, render.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	want := "qiime p a \\\n" +
		"    --p-depth 10 \\\n" +
		"    --p-ratio 0.5 \\\n" +
		"    --p-flag True \\\n" +
		"    --p-levels 1 \\\n" +
		"    --p-levels 2 \\\n" +
		"    --p-levels 3 \\\n" +
		"    --m-inline-file md.tsv \\\n" +
		"    --m-inline-column 'site'"
	assert.Equal(t, want, out)
}

func TestOutputsBecomeRecords(t *testing.T) {
	reg := loadString(t, `
plugin "p" {
  action "first" {
    output "table" { type = "FeatureTable[Frequency]" }
    example "chain" {
      use_action "p" "first" {
        outputs {
          table = "filtered"
        }
      }
      use_action "p" "second" {
        inputs {
          table = filtered
        }
      }
    }
  }
  action "second" {
    input "table" { type = "FeatureTable[Frequency]" }
  }
}
`)
	rec := replayExample(t, reg, "p", "first", "chain")
	assert.Equal(t, "action p.second [table] []", rec.calls[1])
}

func TestFactories(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{
		"defs/p.hcl": `
plugin "p" {
  action "a" {
    example "data" {
      init_data "inline" { content = "abc" }
      init_metadata "from_file" { source = "md.tsv" }
      init_data "empty" {}
      init_data "missing" { source = "nope.qza" }
    }
  }
}
`,
		"defs/md.tsv": "id\tsite\n",
	})
	l := NewLoader()
	require.NoError(t, l.LoadFile(filepath.Join(dir, "defs", "p.hcl")))
	rec := replayExample(t, l.Registry(), "p", "a", "data")

	v, err := rec.data["inline"]()
	require.NoError(t, err)
	assert.Equal(t, &Datum{Ref: "inline", Kind: KindData, Content: []byte("abc")}, v)
	assert.Equal(t, "inline.qza", v.(*Datum).Filename())

	v, err = rec.data["from_file"]()
	require.NoError(t, err)
	assert.Equal(t, "id\tsite\n", string(v.(*Datum).Content))
	assert.Equal(t, "from_file.tsv", v.(*Datum).Filename())

	v, err = rec.data["empty"]()
	require.NoError(t, err)
	assert.Empty(t, v.(*Datum).Content)

	_, err = rec.data["missing"]()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDataMaterialize))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.ErrorCode
	}{
		{
			name: "unknown reference",
			body: `merge_metadata "m" {
        records = [ghost]
      }`,
			code: errors.ErrExampleReplay,
		},
		{
			name: "unknown action",
			body: `use_action "p" "nope" {}`,
			code: errors.ErrActionNotFound,
		},
		{
			name: "unsupported value",
			body: `use_action "p" "a" {
        inputs {
          x = { a = 1 }
        }
      }`,
			code: errors.ErrExampleReplay,
		},
		{
			name: "non-string comment",
			body: `comment { text = ["a"] }`,
			code: errors.ErrExampleReplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fmt.Sprintf(`
plugin "p" {
  action "a" {
    parameter "x" { type = "Str" }
    example "e" {
      %s
    }
  }
}
`, tt.body)
			reg := loadString(t, src)
			a, err := reg.Action("p", "a")
			require.NoError(t, err)
			ex, err := a.Example("e")
			require.NoError(t, err)

			err = ex(newRecorder())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestReplayIsRepeatable(t *testing.T) {
	reg := loadString(t, diversityHCL)
	first := replayExample(t, reg, "diversity", "core_metrics", "basic_usage")
	second := replayExample(t, reg, "diversity", "core_metrics", "basic_usage")
	assert.Equal(t, first.calls, second.calls)
}
