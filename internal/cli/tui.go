package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
	"github.com/r9s-ai/sdmxrest/internal/tui"
	"github.com/r9s-ai/sdmxrest/pkg/config"
)

type tuiOptions struct {
	target targetOptions
	short  bool
	params queryspec.Params
}

func newTUICmd(root *rootOptions) *cobra.Command {
	opts := tuiOptions{}
	cmd := &cobra.Command{
		Use:   "tui <family>",
		Short: "Browse the version matrix of a query interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			t, err := resolveTarget(cfg, opts.target, config.KindRegistry)
			if err != nil {
				return err
			}
			q, err := opts.params.Build(familyArg(args))
			if err != nil {
				return err
			}
			return tui.Run(q, tui.Options{BaseURL: t.baseURL, Short: opts.short}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.target.endpoint, "endpoint", "e", "", "prefix urls with this endpoint's url")
	fs.StringVar(&opts.target.baseURL, "base-url", "", "prefix urls with this base url")
	fs.BoolVarP(&opts.short, "short", "s", false, "start in short form")
	bindQueryFlags(fs, &opts.params)
	return cmd
}
