package cmds

import (
	"fmt"
	"sort"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/tui/widgets"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type actionCommand struct {
	Use   string
	Short string
	Kind  protocol.ActionKind
}

var actionCommands = []actionCommand{
	{Use: "sequence", Short: "Chart the distribution of forward and reverse sequence lengths", Kind: protocol.ActionSequence},
	{Use: "paired", Short: "Chart the percentage of paired reads", Kind: protocol.ActionPaired},
	{Use: "nucleotide", Short: "Chart clustered nucleotide percentages for both orientations", Kind: protocol.ActionNucleotide},
	{Use: "calc-identity", Short: "Compute forward/reverse identity on the backend", Kind: protocol.ActionCalcIdentity},
	{Use: "identity", Short: "Chart the forward/reverse identity distribution", Kind: protocol.ActionIdentity},
	{Use: "diamond", Short: "Run a DIAMOND alignment with the given options", Kind: protocol.ActionDiamond},
}

const (
	outputTerm = "term"
	outputJSON = "json"
)

func newActionCmd(a actionCommand) *cobra.Command {
	var output string
	var width int

	cmd := &cobra.Command{
		Use:   a.Use,
		Short: a.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}

			var renderer chart.Renderer
			switch output {
			case outputTerm:
				renderer = &widgets.TerminalRenderer{W: cmd.OutOrStdout(), Width: width}
			case outputJSON:
				renderer = &chart.JSONRenderer{W: cmd.OutOrStdout()}
			default:
				return errors.Errorf("unknown output %q (want %s or %s)", output, outputTerm, outputJSON)
			}

			e, err := newEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ui := uistate.NewController()
			e.UI = ui
			e.Renderer = renderer

			src := newFlagSource(cmd.Flags(), opts.Config.Form)
			resp := e.Run(cmd.Context(), a.Kind, src)
			logHookStats(e)

			st := ui.Snapshot()
			for _, line := range statusLines(st) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}

			switch r := resp.(type) {
			case protocol.Success:
				if d, ok := r.Payload.(protocol.DiamondPayload); ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), d.Body)
					return err
				}
				return nil
			case protocol.Failure:
				region := uistate.ErrorRegionFor(a.Kind)
				msg := st.Error(region)
				if msg == "" {
					msg = uistate.MessageFor(r.Code)
				}
				return errors.Errorf("%s: %s", region, msg)
			default:
				return errors.Errorf("unexpected response %T", resp)
			}
		},
	}

	form.AddFlags(cmd.Flags(), form.Fields(a.Kind), nil)
	cmd.Flags().StringVarP(&output, "output", "o", outputTerm, "Chart output: term or json")
	cmd.Flags().IntVar(&width, "width", 100, "Terminal chart width")
	return cmd
}

func statusLines(st uistate.State) []string {
	regions := make([]string, 0, len(st.Status))
	for r := range st.Status {
		regions = append(regions, string(r))
	}
	sort.Strings(regions)
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		out = append(out, fmt.Sprintf("%s: %s", r, st.Status[uistate.Region(r)]))
	}
	return out
}
