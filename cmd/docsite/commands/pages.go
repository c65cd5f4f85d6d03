package commands

import (
	"encoding/json"
	"fmt"
)

// PagesCmd implements the 'pages' command.
type PagesCmd struct {
	ContentFlags `embed:""`
	JSON bool `help:"Print a JSON array instead of one route per line"`
}

func (p *PagesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	p.apply(cfg)
	st, err := newSite(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	routes := st.Routes(ctx)
	if p.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	}
	for _, r := range routes {
		_, _ = fmt.Fprintln(g.Stdout, r)
	}
	return nil
}
