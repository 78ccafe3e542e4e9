// Package render turns replayed usage examples into shell commands.
//
// A Renderer implements usage.Usage. Every action hook becomes one command
// block of the form
//
//	qiime <plugin> <action> \
//	    --i-<input> <ref>.qza \
//	    --p-<parameter> <value> \
//	    --m-<metadata>-file <ref>.tsv \
//	    --m-<metadata>-column '<column>' \
//	    --o-<output> <ref>.qza
//
// and comments become "# " lines. Hooks with no command-line counterpart
// (column lookups, merges, assertions) leave the transcript untouched.
//
// Renderers are single use: build one per example, replay the example and
// read Render. Examples does exactly that for every example of an action.
package render
