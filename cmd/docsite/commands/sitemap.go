package commands

import (
	"os"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// SitemapCmd implements the 'sitemap' command.
type SitemapCmd struct {
	ContentFlags `embed:""`
	Output string `short:"o" help:"Write to this file instead of stdout"`
}

func (s *SitemapCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s.apply(cfg)
	st, err := newSite(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := st.Sitemap(st.Routes(ctx), st.Now())
	if err != nil {
		return err
	}
	if s.Output == "" {
		_, err = g.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(s.Output, out, 0o644); err != nil { // #nosec G306 -- published file
		return derrors.OutputError("write sitemap", err).WithContext("path", s.Output)
	}
	return nil
}
