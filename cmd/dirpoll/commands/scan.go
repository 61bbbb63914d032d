package commands

import "github.com/spf13/cobra"

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the files a watcher would track",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Scan(cmd.Context(), readOptions(cmd, args))
		},
	}
	addScanFlags(cmd)
	return cmd
}
