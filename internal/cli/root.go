// Package cli holds the sdmxctl cobra commands.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/sdmxrest/internal/logx"
	"github.com/r9s-ai/sdmxrest/pkg/config"
)

type rootOptions struct {
	cfgPath  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "sdmxctl",
		Short:         "Build, compare and fetch SDMX-REST queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.cfgPath, "config", "c", os.Getenv("SDMXREST_CONFIG"), "config yaml path (default: built-in, no endpoints)")
	fs.StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(
		newURLCmd(opts),
		newGetCmd(opts),
		newMatrixCmd(opts),
		newVersionsCmd(),
		newServeCmd(opts),
		newTUICmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs sdmxctl with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if p := strings.TrimSpace(o.cfgPath); p != "" {
		return config.Load(p)
	}
	return config.Default()
}

func (o *rootOptions) logger(cfg *config.Config, w io.Writer) *logx.Logger {
	level := cfg.Logging.Level
	if strings.TrimSpace(o.logLevel) != "" {
		level = o.logLevel
	}
	return logx.New(logx.Config{
		Level:      level,
		Pretty:     logx.PrettyMode(cfg.Logging.Pretty, w),
		Output:     w,
		WithCaller: cfg.Logging.Caller,
	})
}
