package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/mcpserver"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	ContentFlags `embed:""`
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
	MCP  bool   `name:"mcp" help:"Also mount the MCP streamable HTTP transport at /mcp"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s.apply(cfg)
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	st, err := newSite(cfg)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	opts := []httpserver.Option{
		httpserver.WithRecorder(metrics.NewPrometheusRecorder(reg)),
		httpserver.WithMetricsHandler(metrics.HTTPHandler(reg)),
	}
	if s.MCP {
		opts = append(opts, httpserver.WithHandler(mcpserver.DefaultEndpoint,
			mcpserver.NewHTTPHandler(mcpserver.New(st), mcpserver.DefaultEndpoint)))
	}
	srv := httpserver.New(st, cfg.Server, opts...)

	ctx, cancel := signalContext()
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	slog.Info("Shutdown signal received")
	return stopServer(srv)
}

func stopServer(srv *httpserver.Server) error {
	stopCtx, cancel := shutdownContext()
	defer cancel()
	return srv.Stop(stopCtx)
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}
