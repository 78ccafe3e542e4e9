// Package cliname converts framework identifiers into command-line tokens.
package cliname

import "strings"

// ToCLIName turns an identifier such as "core_metrics" into the hyphenated,
// lowercase form used on the command line ("core-metrics"). Spaces are kept so
// whole command prefixes can be converted at once.
func ToCLIName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
