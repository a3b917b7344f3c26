package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/web"
)

type serveOptions struct {
	listen string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the URL preview HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeWithOptions(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "http listen address (overrides server.listen and SDMXREST_LISTEN)")
	return cmd
}

func runServeWithOptions(cmd *cobra.Command, root *rootOptions, opts serveOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	return web.Run(web.Options{
		ConfigPath: strings.TrimSpace(root.cfgPath),
		Listen:     strings.TrimSpace(opts.listen),
		Logger:     root.logger(cfg, cmd.ErrOrStderr()),
	})
}
