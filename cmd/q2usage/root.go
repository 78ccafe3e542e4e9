package q2usage

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/q2usage/internal/version"
	"github.com/arthur-debert/q2usage/pkg/config"
	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/logging"
	"github.com/arthur-debert/q2usage/pkg/output"
	"github.com/arthur-debert/q2usage/pkg/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the global flags and the configuration they resolve to
type app struct {
	verbosity  int
	configFile string
	format     string
	program    string
	width      int

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "q2usage",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.configFile, "config", "", MsgFlagConfig)
	flags.StringVarP(&a.format, "format", "f", "", MsgFlagFormat)
	flags.StringVar(&a.program, "program", "", MsgFlagProgram)
	flags.IntVar(&a.width, "width", 0, MsgFlagWidth)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf("q2usage version %s\n  commit: %s\n  built:  %s\n",
		version.Version, version.Commit, version.Date))

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newDocsCmd(a))
	rootCmd.AddCommand(newDataCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig applies the config layers, with explicitly set flags last
func (a *app) loadConfig(cmd *cobra.Command) error {
	overrides := make(map[string]interface{})
	if cmd.Flags().Changed("program") {
		overrides["render.program"] = a.program
	}
	if cmd.Flags().Changed("width") {
		overrides["render.width"] = a.width
	}
	if cmd.Flags().Changed("format") {
		overrides["output.format"] = a.format
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: a.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// renderOptions turns the render settings into renderer options
func (a *app) renderOptions() []render.Option {
	return []render.Option{
		render.WithProgram(a.cfg.Render.Program),
		render.WithIndent(a.cfg.Render.Indent),
		render.WithWidth(a.cfg.Render.Width),
	}
}

// resolveFormat resolves output.format for out; auto is only detected when
// out is a file.
func (a *app) resolveFormat(out io.Writer) (output.Format, error) {
	f, err := output.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return f, err
	}
	if file, ok := out.(*os.File); ok {
		return output.Resolve(f, file), nil
	}
	if f == output.FormatAuto {
		return output.FormatText, nil
	}
	return f, nil
}

func (a *app) writer(out io.Writer) (*output.Writer, error) {
	f, err := a.resolveFormat(out)
	if err != nil {
		return nil, err
	}
	md := output.MarkdownRenderer{Style: a.cfg.Output.Style}
	return output.NewWriter(out, f, md), nil
}
