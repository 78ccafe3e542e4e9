package q2usage

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/q2usage/pkg/config"
	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/exampledata"
	"github.com/arthur-debert/q2usage/pkg/output"
	"github.com/arthur-debert/q2usage/pkg/plugin"
	"github.com/arthur-debert/q2usage/pkg/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// selection narrows the loaded actions down to the ones a command works on
type selection struct {
	action  string
	example string
}

func (s *selection) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.action, "action", "a", "", MsgFlagAction)
	cmd.Flags().StringVarP(&s.example, "example", "e", "", MsgFlagExample)
}

// actions returns the selected actions from reg
func (s *selection) actions(reg *plugin.Registry) ([]*plugin.Action, error) {
	if s.action == "" {
		if s.example != "" {
			return nil, errors.New(errors.ErrInvalidInput, MsgErrExampleAction)
		}
		return reg.Actions(), nil
	}

	pluginID, actionID, ok := strings.Cut(s.action, ".")
	if !ok || pluginID == "" || actionID == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrActionFormat, s.action)
	}
	a, err := reg.Action(pluginID, actionID)
	if err != nil {
		return nil, err
	}
	return []*plugin.Action{a}, nil
}

// narrow drops every example but the selected one from doc
func (s *selection) narrow(doc *output.Document) {
	if s.example == "" {
		return
	}
	for i := range doc.Actions {
		kept := doc.Actions[i].Examples[:0]
		for _, ex := range doc.Actions[i].Examples {
			if ex.Name == s.example {
				kept = append(kept, ex)
			}
		}
		doc.Actions[i].Examples = kept
	}
}

func (s *selection) load(cmd *cobra.Command, paths []string) ([]*plugin.Action, error) {
	reg, err := plugin.LoadPaths(cmd.Context(), paths...)
	if err != nil {
		return nil, err
	}
	actions, err := s.actions(reg)
	if err != nil {
		return nil, err
	}
	if s.example != "" {
		if _, err := actions[0].Example(s.example); err != nil {
			return nil, err
		}
	}
	return actions, nil
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		sel   selection
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "render <path>...",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderOnce := func() error {
				actions, err := sel.load(cmd, args)
				if err != nil {
					return err
				}
				doc, err := output.Build(actions, a.renderOptions()...)
				if err != nil {
					return err
				}
				sel.narrow(doc)
				w, err := a.writer(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				log.Info().Int("actions", len(doc.Actions)).Msg("Rendering examples")
				return w.WriteExamples(doc)
			}
			if !watch {
				return renderOnce()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			w := &watcher{paths: args, run: renderOnce}
			return w.Run(ctx)
		},
	}
	sel.addFlags(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list <path>...",
		Short:   MsgListShort,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := plugin.LoadPaths(cmd.Context(), args...)
			if err != nil {
				return err
			}
			actions := reg.Actions()
			if len(actions) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), MsgNoActions)
				return err
			}
			f, err := a.resolveFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			output.WriteActionTable(cmd.OutOrStdout(), actions, f == output.FormatTerminal)
			return nil
		},
	}
}

func newDocsCmd(a *app) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:     "docs <path>...",
		Short:   MsgDocsShort,
		Long:    MsgDocsLong,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := sel.load(cmd, args)
			if err != nil {
				return err
			}
			doc, err := output.Build(actions, a.renderOptions()...)
			if err != nil {
				return err
			}
			sel.narrow(doc)
			w, err := a.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return w.WriteDocs(doc)
		},
	}
	sel.addFlags(cmd)
	return cmd
}

func newDataCmd(a *app) *cobra.Command {
	var (
		sel    selection
		outDir string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:     "data <path>...",
		Short:   MsgDataShort,
		Long:    MsgDataLong,
		Example: MsgDataExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := sel.load(cmd, args)
			if err != nil {
				return err
			}
			ex, err := actions[0].Example(sel.example)
			if err != nil {
				return err
			}

			r := render.New(a.renderOptions()...)
			if err := ex(r); err != nil {
				return err
			}
			refs := r.DataRefs()
			if len(refs) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgNoExampleData, sel.example)
				return err
			}
			log.Debug().Strs("refs", refs).Msg("Loading example data")
			data, err := r.GetExampleData()
			if err != nil {
				return errors.Wrapf(err, errors.ErrDataMaterialize, "cannot load data of example %s", sel.example)
			}

			files, err := exampledata.Materialize(cmd.Context(), data, outDir, exampledata.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, MsgDataFileFormat, f.Path, f.Size)
			}
			if dryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
				return nil
			}
			fmt.Fprintf(out, MsgDataWritten, len(files), outDir)
			return nil
		},
	}
	sel.addFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", MsgFlagOut)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	_ = cmd.MarkFlagRequired("action")
	_ = cmd.MarkFlagRequired("example")
	return cmd
}

func newGenConfigCmd(a *app) *cobra.Command {
	var write, effective bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := []byte(config.DefaultContent())
			if effective {
				generated, err := config.Generate(a.cfg)
				if err != nil {
					return err
				}
				content = generated
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			path := config.UserConfigPath()
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, path).WithDetail("path", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, "cannot create %s", filepath.Dir(path))
			}
			if err := os.WriteFile(path, content, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, "cannot write %s", path)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
