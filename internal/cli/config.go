package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/benchbot/config"
)

// newConfigCommand creates "config", which prints the resolved settings
// and where each value came from.
func newConfigCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := make([]string, 0, len(config.Defaults()))
			for key := range config.Defaults() {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range keys {
				fmt.Fprintf(tw, "%s\t%q\t(%s)\n", key, opts.resolved.Get(key), opts.resolved.Source(key))
			}
			return tw.Flush()
		},
	}
}
