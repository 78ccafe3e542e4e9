package q2usage

import (
	_ "embed"
	"strings"
)

// Command messages
const (
	MsgRootShort       = "Render plugin usage examples as command lines"
	MsgRenderShort     = "Render usage examples"
	MsgListShort       = "List plugins and actions"
	MsgDocsShort       = "Generate Markdown documentation"
	MsgDataShort       = "Write the data of an example to disk"
	MsgGenConfigShort  = "Print the default configuration"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgNoActions      = "No actions found."
	MsgDryRunNotice   = "DRY RUN MODE - No files were written"
	MsgNoExampleData  = "Example %s declares no data.\n"
	MsgDataFileFormat = "  %s (%d bytes)\n"
	MsgDataWritten    = "Wrote %d file(s) to %s\n"
	MsgConfigWritten  = "Wrote configuration to %s\n"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrActionFormat  = "--action must be plugin.action, got %q"
	MsgErrExampleAction = "--example requires --action"
	MsgErrConfigExists  = "%s already exists, remove it first"
	MsgErrDetails       = "  details: %s\n"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file to use instead of the user and project files"
	MsgFlagFormat    = "Output format (auto, text, term, json, yaml, markdown)"
	MsgFlagProgram   = "Program name the rendered commands start with"
	MsgFlagWidth     = "Column at which option lines wrap"
	MsgFlagAction    = "Only this action, as plugin.action"
	MsgFlagExample   = "Only this example of --action"
	MsgFlagOut       = "Directory to write example data into"
	MsgFlagDryRun    = "Show the files that would be written"
	MsgFlagWatch     = "Render again whenever a definition file changes"
	MsgFlagWrite     = "Write the config to the user config file"
	MsgFlagEffective = "Print the configuration in effect"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/render-long.txt
	msgRenderLongRaw string
	MsgRenderLong    = strings.TrimSpace(msgRenderLongRaw)

	//go:embed msgs/render-example.txt
	msgRenderExampleRaw string
	MsgRenderExample    = strings.TrimRight(msgRenderExampleRaw, "\n")

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/docs-long.txt
	msgDocsLongRaw string
	MsgDocsLong    = strings.TrimSpace(msgDocsLongRaw)

	//go:embed msgs/data-long.txt
	msgDataLongRaw string
	MsgDataLong    = strings.TrimSpace(msgDataLongRaw)

	//go:embed msgs/data-example.txt
	msgDataExampleRaw string
	MsgDataExample    = strings.TrimRight(msgDataExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
