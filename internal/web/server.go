// Package web serves the URL preview API: render any descriptor at any API
// version, or across all of them, without contacting a registry.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/r9s-ai/sdmxrest/internal/logx"
	"github.com/r9s-ai/sdmxrest/pkg/config"
	"github.com/r9s-ai/sdmxrest/pkg/metrics"
)

type Options struct {
	ConfigPath string
	// Listen overrides server.listen.
	Listen string
	Logger *logx.Logger
}

type Server struct {
	mu      sync.RWMutex
	cfg     *config.Config
	cfgPath string

	log     *logx.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
}

// NewServer wires a server around cfg. cfgPath is only used by Reload.
func NewServer(cfg *config.Config, cfgPath string, l *logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Server{
		cfg:     cfg,
		cfgPath: strings.TrimSpace(cfgPath),
		log:     l.Component("web"),
		reg:     reg,
		metrics: metrics.New(reg),
	}
}

func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload re-reads the config file and swaps it in. On error the previous
// config stays active.
func (s *Server) Reload() error {
	if s.cfgPath == "" {
		return errors.New("no config file to reload")
	}
	cfg, err := config.Load(s.cfgPath)
	s.metrics.RecordReload(err == nil)
	if err != nil {
		return fmt.Errorf("reload config %q: %w", s.cfgPath, err)
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

func Run(opts Options) error {
	cfgPath := strings.TrimSpace(opts.ConfigPath)
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	listen := strings.TrimSpace(opts.Listen)
	if listen == "" {
		listen = cfg.Server.Listen
	}

	gin.SetMode(gin.ReleaseMode)
	srv := NewServer(cfg, cfgPath, opts.Logger)

	if cfg.Server.AutoReload.Enabled && cfgPath != "" {
		debounce := time.Duration(cfg.Server.AutoReload.DebounceMs) * time.Millisecond
		closer, err := installConfigAutoReload(cfgPath, debounce, srv.Reload, srv.log)
		if err != nil {
			return fmt.Errorf("init config auto reload: %w", err)
		}
		defer func() { _ = closer.Close() }()
	}

	hs := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		srv.log.Info().Str("listen", listen).Msg("sdmxctl preview server listening")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	srv.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// Handler returns the gin engine serving the preview API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	headerKey := s.Config().RequestIDHeader
	r.Use(requestIDMiddleware(headerKey))
	r.Use(accessLogMiddleware(s.log, headerKey))
	r.Use(metricsMiddleware(s.metrics))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/versions", s.handleVersions)
	api.GET("/endpoints", s.handleEndpoints)
	api.GET("/formats/:family", s.handleFormats)
	api.GET("/url/:family", s.handleURL)
	api.GET("/matrix/:family", s.handleMatrix)
	api.POST("/reload", s.handleReload)
	return r
}
