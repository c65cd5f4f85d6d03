package commands

import (
	"errors"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/mcpserver"
)

// MCPCmd implements the 'mcp' command.
type MCPCmd struct {
	ContentFlags `embed:""`
	HTTP     string `name:"http" help:"Serve streamable HTTP on this address instead of stdio (e.g. ':8081')"`
	Endpoint string `help:"HTTP endpoint path" default:"/mcp"`
}

func (m *MCPCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	m.apply(cfg)
	st, err := newSite(cfg)
	if err != nil {
		return err
	}
	s := mcpserver.New(st)

	if m.HTTP == "" {
		return mcpserver.ServeStdio(s)
	}

	httpSrv := mcpserver.NewHTTPHandler(s, m.Endpoint)
	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting MCP server", slog.String("addr", m.HTTP), slog.String("endpoint", m.Endpoint))
		errCh <- httpSrv.Start(m.HTTP)
	}()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	stopCtx, stop := shutdownContext()
	defer stop()
	return httpSrv.Shutdown(stopCtx)
}
