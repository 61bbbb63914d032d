package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dirpoll/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Poll a directory tree and print every change",
		Long: "Poll a directory tree and print created, changed, deleted and renamed files\n" +
			"until interrupted. Without a directory or --config the current directory is watched.\n\n" +
			"By default a poll is skipped while the root's own modification time is unchanged.\n" +
			"That time only moves when entries directly inside the root come or go,\n" +
			"so in-place edits and anything below the top level go unreported.\n" +
			"Pass --no-precheck to scan the whole tree on every poll.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), readOptions(cmd, args))
		},
	}
	addScanFlags(cmd)
	cmd.Flags().DurationP("interval", "i", domain.DefaultRefreshRate, "Time between two polls")
	cmd.Flags().StringP("notify", "n", domain.DefaultNotifyFilter.String(),
		"Timestamp changes to report, e.g. LastWrite|CreationTime")
	cmd.Flags().Bool("no-precheck", false, "Scan the whole tree on every poll; needed to see in-place edits and nested changes")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}
