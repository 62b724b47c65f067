package cmds

import (
	"github.com/spf13/cobra"
)

func AddCommands(root *cobra.Command) error {
	for _, a := range actionCommands {
		root.AddCommand(newActionCmd(a))
	}
	root.AddCommand(newExportCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newServeStubCmd())
	return nil
}
