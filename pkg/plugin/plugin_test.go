package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const diversityHCL = `
plugin "diversity" {
  description = "Diversity analyses"

  action "core_metrics" {
    description = "Core diversity metrics"

    input "table" { type = "FeatureTable[Frequency]" }
    parameter "sampling_depth" { type = "Int % Range(1, None)" }
    parameter "metadata" { type = "Metadata" }
    output "rarefied_table" { type = "FeatureTable[Frequency]" }
    output "emperor" { type = "Visualization" }

    example "basic_usage" {
      init_data "table" { content = "feature table" }
      init_metadata "sample_md" { source = "sample_md.tsv" }
      comment { text = "Run core metrics" }
      use_action "diversity" "core_metrics" {
        inputs {
          table          = table
          sampling_depth = 500
          metadata       = sample_md
        }
        outputs {
          rarefied_table = "rarefied"
          emperor        = "emperor_plot"
        }
      }
    }
  }

  action "beta_group_significance" {
    input "distance_matrix" { type = "DistanceMatrix" }
    parameter "metadata" { type = "MetadataColumn[Categorical]" }
    output "visualization" { type = "Visualization" }

    example "by_body_site" {
      init_data "dm" {}
      init_metadata "md" { content = "id\tbody-site" }
      get_metadata_column "site" {
        column = "body-site"
        record = md
      }
      use_action "diversity" "beta_group_significance" {
        inputs {
          distance_matrix = dm
          metadata        = site
        }
        outputs {
          visualization = "site_significance"
        }
      }
      assert_has_line_matching {
        ref        = site_significance
        label      = "significance"
        path       = "data/index.html"
        expression = "PERMANOVA"
      }
    }
  }
}
`

// writeDefinitions writes files into a fresh directory and returns it
func writeDefinitions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// loadString loads src as if read from a file in a fresh directory
func loadString(t *testing.T, src string) *Registry {
	t.Helper()
	l := NewLoader()
	require.NoError(t, l.LoadBytes([]byte(src), filepath.Join(t.TempDir(), "plugin.hcl")))
	return l.Registry()
}
