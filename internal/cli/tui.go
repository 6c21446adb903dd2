package cli

import (
	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/client"
	"github.com/existflow/taskboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive board browser",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := loggedInClient()
	if err != nil {
		return err
	}
	return tui.Run(c, client.NewDebouncer(cfg.EditDebounce))
}
