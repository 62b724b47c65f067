package cmds

import (
	"fmt"

	"github.com/go-go-golems/readviz/pkg/dispatch"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var outDir string
	var filename string

	cmd := &cobra.Command{
		Use:   "export-tsv",
		Short: "Print the TSV export URL, or download it with --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			e, err := newEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("out") && opts.Config.ExportDir != "" {
				outDir = opts.Config.ExportDir
			}
			var dl *dispatch.Downloader
			if outDir != "" {
				dl = &dispatch.Downloader{Dir: outDir, Filename: filename}
				e.Navigator = dl
			} else {
				e.Navigator = dispatch.PrintNavigator{W: cmd.OutOrStdout()}
			}

			if _, err := e.Export(cmd.Context(), newFlagSource(cmd.Flags(), opts.Config.Form)); err != nil {
				return err
			}
			if dl != nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), dl.LastPath)
				return err
			}
			return nil
		},
	}

	form.AddFlags(cmd.Flags(), form.Fields(protocol.ActionExportTSV), nil)
	cmd.Flags().StringVar(&outDir, "out", "", "Download the export into this directory instead of printing the URL")
	cmd.Flags().StringVar(&filename, "filename", "", "File name for --out (defaults to the server's attachment name)")
	return cmd
}
