package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
	"github.com/r9s-ai/sdmxrest/pkg/config"
	"github.com/r9s-ai/sdmxrest/pkg/httpclient"
	"github.com/r9s-ai/sdmxrest/pkg/service"
)

const defaultGetTimeout = 30 * time.Second

type getOptions struct {
	target  targetOptions
	params  queryspec.Params
	out     string
	include bool
	timeout time.Duration
}

func newGetCmd(root *rootOptions) *cobra.Command {
	opts := getOptions{}
	cmd := &cobra.Command{
		Use:   "get <family>",
		Short: "Fetch a query from a registry or discovery service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetWithOptions(cmd, root, familyArg(args), opts)
		},
	}
	fs := cmd.Flags()
	bindTargetFlags(fs, &opts.target)
	fs.StringVarP(&opts.out, "out", "o", "", "write the body to this file instead of stdout")
	fs.BoolVarP(&opts.include, "include", "i", false, "print status, url and content type to stderr")
	fs.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default: endpoint timeout_ms, else 30s)")
	bindQueryFlags(fs, &opts.params)
	return cmd
}

func runGetWithOptions(cmd *cobra.Command, root *rootOptions, family string, opts getOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := root.logger(cfg, cmd.ErrOrStderr())

	kind := config.KindRegistry
	if family == queryspec.FamilyGDS {
		kind = config.KindGDS
	}
	t, err := resolveTarget(cfg, opts.target, kind)
	if err != nil {
		return err
	}
	if t.baseURL == "" {
		return errors.New("no base url: pass --base-url or configure an endpoint")
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = t.endpoint.Timeout()
	}
	if timeout <= 0 {
		timeout = defaultGetTimeout
	}
	clientOpts := []service.Option{
		service.WithHTTPClient(httpclient.New(timeout, t.endpoint.HTTPProxy())),
		service.WithLogger(log),
		service.WithRequestIDHeader(cfg.RequestIDHeader),
		service.WithUserAgent(cfg.UserAgent),
	}

	var resp *service.Response
	if kind == config.KindGDS {
		c, err := service.NewGds(t.baseURL, clientOpts...)
		if err != nil {
			return err
		}
		resp, err = c.Get(cmd.Context(), opts.params.BuildGds())
		if err != nil {
			return err
		}
	} else {
		q, err := opts.params.Build(family)
		if err != nil {
			return err
		}
		c, err := service.New(t.baseURL, t.version, clientOpts...)
		if err != nil {
			return err
		}
		resp, err = c.GetFormat(cmd.Context(), q, t.formatFor(opts.target, q.Resource()))
		if err != nil {
			return err
		}
	}

	if opts.include {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\nContent-Type: %s\nRequest-Id: %s\n\n", resp.Status, resp.URL, resp.ContentType, resp.RequestID)
	}
	if p := strings.TrimSpace(opts.out); p != "" {
		if err := os.WriteFile(p, resp.Body, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", p, err)
		}
		log.Info().Str("file", p).Int("bytes", len(resp.Body)).Msg("response saved")
		return nil
	}
	_, err = cmd.OutOrStdout().Write(resp.Body)
	return err
}
