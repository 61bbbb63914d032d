package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dirpoll/internal/app"
)

// addScanFlags registers the flags shared by watch and scan.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to a YAML watch file")
	cmd.Flags().StringP("filter", "f", "", `Filter expression such as "*.txt;*.pdf"`)
	cmd.Flags().IntP("depth", "d", -1, "Maximum directory depth below the root (-1 for unbounded)")
	cmd.Flags().StringArrayP("exclude", "x", nil, "Glob pattern for entry names to skip (repeatable)")
	cmd.Flags().Bool("json", false, "Print one JSON object per line")
}

// readOptions collects the flags that were set on the command line. Flags
// left at their default do not override the watch file.
func readOptions(cmd *cobra.Command, args []string) app.Options {
	flags := cmd.Flags()
	var opts app.Options
	if len(args) > 0 {
		opts.Root = args[0]
	}

	opts.ConfigPath, _ = flags.GetString("config")
	opts.JSON, _ = flags.GetBool("json")

	if flags.Changed("filter") {
		v, _ := flags.GetString("filter")
		opts.Filter = &v
	}
	if flags.Changed("exclude") {
		opts.Exclude, _ = flags.GetStringArray("exclude")
	}
	if flags.Changed("depth") {
		v, _ := flags.GetInt("depth")
		opts.Depth = &v
	}

	if flags.Changed("interval") {
		v, _ := flags.GetDuration("interval")
		opts.Interval = &v
	}
	if flags.Changed("notify") {
		v, _ := flags.GetString("notify")
		opts.Notify = &v
	}
	// Only watch defines these; lookups on scan yield zero values.
	opts.NoPrecheck, _ = flags.GetBool("no-precheck")
	opts.MetricsAddr, _ = flags.GetString("metrics-addr")
	return opts
}
