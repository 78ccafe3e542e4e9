// Package plugin loads plugin definitions and their recorded usage examples
// from HCL files and replays those examples against a usage.Usage.
//
// A definition file declares plugins, their actions, each action's
// signature and any number of named examples:
//
//	plugin "feature_table" {
//	  action "merge" {
//	    input "tables" { type = "List[FeatureTable[Frequency]]" }
//	    output "merged_table" { type = "FeatureTable[Frequency]" }
//
//	    example "merge_two_tables" {
//	      init_data "table_b" { source = "data/table-b.qza" }
//	      init_data "table_a" { source = "data/table-a.qza" }
//	      init_data_collection "tables" { records = [table_b, table_a] }
//	      use_action "feature_table" "merge" {
//	        inputs  { tables = tables }
//	        outputs { merged_table = "merged" }
//	      }
//	    }
//	  }
//	}
//
// Example steps run in source order. Each step that creates a record makes
// its reference available as a variable to the steps after it.
package plugin
