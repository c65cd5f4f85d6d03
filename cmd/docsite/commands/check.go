package commands

import (
	"fmt"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	ContentFlags `embed:""`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	st, err := newSite(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	nav := st.Navigation()
	dead, err := nav.DeadLinks(ctx, st.Resolver())
	if err != nil {
		return err
	}
	for _, d := range dead {
		_, _ = fmt.Fprintf(g.Stdout, "%s > %s: %s (%v)\n", d.Section, d.Title, d.Href, d.Err)
	}
	if len(dead) > 0 {
		return derrors.New(derrors.CategoryNotFound, derrors.SeverityError,
			fmt.Sprintf("%d navigation links do not resolve", len(dead)))
	}
	_, _ = fmt.Fprintf(g.Stdout, "navigation ok: %d sections checked\n", nav.Len())
	return nil
}
