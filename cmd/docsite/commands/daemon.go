package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/daemon"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	ContentFlags `embed:""`
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
	Serve  bool   `help:"Also serve the live site, /healthz and /metrics on server.addr"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	d.apply(cfg)
	if d.Output != "" {
		cfg.Output.Directory = d.Output
	}
	st, err := newSite(cfg)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	gen := build.NewGenerator(st, build.WithWorkers(cfg.Build.Workers), build.WithRecorder(recorder))
	dm := daemon.New(gen, cfg, daemon.WithRecorder(recorder))

	ctx, cancel := signalContext()
	defer cancel()

	if d.Serve {
		srv := httpserver.New(st, cfg.Server,
			httpserver.WithRecorder(recorder),
			httpserver.WithMetricsHandler(metrics.HTTPHandler(reg)))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := stopServer(srv); err != nil {
				slog.Warn("HTTP server shutdown failed", "error", err)
			}
		}()
	}

	slog.Info("Daemon started, waiting for shutdown signal")
	if err := dm.Run(ctx); err != nil {
		return err
	}
	slog.Info("Daemon stopped", slog.Int("builds", dm.Status().Builds))
	return nil
}
