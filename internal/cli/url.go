package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
	"github.com/r9s-ai/sdmxrest/pkg/config"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
)

type urlOptions struct {
	target   targetOptions
	short    bool
	noAccept bool
	params   queryspec.Params
}

func newURLCmd(root *rootOptions) *cobra.Command {
	opts := urlOptions{}
	cmd := &cobra.Command{
		Use:   "url <family>",
		Short: "Print the URL (and Accept header) of a query",
		Long: "Print the URL of a query at one API version.\n\n" +
			"Families: structure, data, availability, schema, metadata, registration, gds.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURLWithOptions(cmd, root, familyArg(args), opts)
		},
	}
	fs := cmd.Flags()
	bindTargetFlags(fs, &opts.target)
	fs.BoolVarP(&opts.short, "short", "s", false, "omit trailing defaults")
	fs.BoolVar(&opts.noAccept, "no-accept", false, "print the URL only")
	bindQueryFlags(fs, &opts.params)
	return cmd
}

func runURLWithOptions(cmd *cobra.Command, root *rootOptions, family string, opts urlOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()

	if family == queryspec.FamilyGDS {
		t, err := resolveTarget(cfg, opts.target, config.KindGDS)
		if err != nil {
			return err
		}
		path, err := opts.params.BuildGds().Path()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, t.baseURL+path)
		return err
	}

	t, err := resolveTarget(cfg, opts.target, config.KindRegistry)
	if err != nil {
		return err
	}
	q, err := opts.params.Build(family)
	if err != nil {
		return err
	}
	path, err := q.URL(t.version, opts.short)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, t.baseURL+path); err != nil {
		return err
	}
	if opts.noAccept {
		return nil
	}
	accept, err := qb.AcceptFor(q.Resource(), t.formatFor(opts.target, q.Resource()), t.version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Accept: %s\n", accept)
	return err
}
