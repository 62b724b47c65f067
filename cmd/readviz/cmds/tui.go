package cmds

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/readviz/pkg/dispatch"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/tui"
	"github.com/go-go-golems/readviz/pkg/tui/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newTuiCmd() *cobra.Command {
	var altScreen bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI with the analysis form and charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			e, err := newEngine(ctx, opts)
			if err != nil {
				return err
			}
			if opts.Config.ExportDir != "" {
				e.Navigator = &dispatch.Downloader{Dir: opts.Config.ExportDir}
			}

			bus, err := tui.NewInMemoryBus()
			if err != nil {
				return err
			}

			tui.RegisterDomainToUITransformer(bus)
			tui.RegisterUIActionRunner(bus, e)

			baseURL := opts.BaseURL
			if baseURL == "" {
				baseURL = dispatch.DefaultBaseURL
			}
			model := models.NewRootModel(form.Defaults(opts.Config.Form)).
				WithInfo(baseURL).
				WithPublisher(func(req protocol.ActionRequest) error {
					return tui.PublishAction(bus.Publisher, req)
				})

			programOptions := []tea.ProgramOption{
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if altScreen {
				programOptions = append(programOptions, tea.WithAltScreen())
			}
			program := tea.NewProgram(model, programOptions...)
			tui.RegisterUIForwarder(bus, program)

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				err := bus.Run(egCtx)
				if stderrors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
			eg.Go(func() error {
				_, err := program.Run()
				cancel()
				if stderrors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})

			err = eg.Wait()
			logHookStats(e)
			if err != nil {
				return errors.Wrap(err, "tui")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "Use the terminal alternate screen buffer")
	return cmd
}
