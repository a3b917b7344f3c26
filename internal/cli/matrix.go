package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
	"github.com/r9s-ai/sdmxrest/pkg/config"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
)

type matrixOptions struct {
	target targetOptions
	short  bool
	params queryspec.Params
}

func newMatrixCmd(root *rootOptions) *cobra.Command {
	opts := matrixOptions{}
	cmd := &cobra.Command{
		Use:   "matrix <family>",
		Short: "Render a query at every API version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrixWithOptions(cmd, root, familyArg(args), opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.target.endpoint, "endpoint", "e", "", "prefix urls with this endpoint's url")
	fs.StringVar(&opts.target.baseURL, "base-url", "", "prefix urls with this base url")
	fs.BoolVarP(&opts.short, "short", "s", false, "omit trailing defaults")
	bindQueryFlags(fs, &opts.params)
	return cmd
}

func runMatrixWithOptions(cmd *cobra.Command, root *rootOptions, family string, opts matrixOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	t, err := resolveTarget(cfg, opts.target, config.KindRegistry)
	if err != nil {
		return err
	}
	q, err := opts.params.Build(family)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tURL / ERROR")
	for _, r := range qb.Matrix(q, opts.short) {
		cell := t.baseURL + r.URL
		if !r.OK() {
			cell = "error: " + r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\n", r.Version, cell)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if v, ok := qb.FirstSupported(q); ok {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nfirst supported: %s\n", v)
	} else {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "\nnot expressible at any version")
	}
	return err
}
