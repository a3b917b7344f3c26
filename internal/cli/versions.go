package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
)

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List SDMX-REST versions and the features each one introduces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byVersion := map[apiversion.ApiVersion][]string{}
			for f, v := range apiversion.Features() {
				byVersion[v] = append(byVersion[v], string(f))
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tFEATURES")
			for _, v := range apiversion.All() {
				features := byVersion[v]
				sort.Strings(features)
				fmt.Fprintf(tw, "%s\t%s\n", v, strings.Join(features, ", "))
			}
			return tw.Flush()
		},
	}
}
