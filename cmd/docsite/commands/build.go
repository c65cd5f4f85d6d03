package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ContentFlags `embed:""`
	Output  string `short:"o" help:"Output directory (overrides output.directory)"`
	Workers int    `short:"w" help:"Concurrent page renders (overrides build.workers)"`
	NoClean bool   `name:"no-clean" help:"Keep existing files in the output directory"`
	Strict  bool   `help:"Fail when any page produced a diagnostic"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Workers > 0 {
		cfg.Build.Workers = b.Workers
	}
	if b.NoClean {
		cfg.Output.Clean = false
	}

	st, err := newSite(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return RunBuild(ctx, g, build.NewGenerator(st, build.WithWorkers(cfg.Build.Workers)), cfg.Output, b.Strict)
}

// RunBuild generates the site and prints a summary with one line per diagnostic.
func RunBuild(ctx context.Context, g *Global, gen *build.Generator, out config.OutputConfig, strict bool) error {
	report, err := gen.Generate(ctx, out)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, report.Summary())
	for _, d := range report.Diagnostics {
		_, _ = fmt.Fprintf(g.Stdout, "  skipped %s: %v\n", d.Route, d.Err)
	}
	if strict && len(report.Diagnostics) > 0 {
		return derrors.New(derrors.CategoryBuild, derrors.SeverityError,
			fmt.Sprintf("%d pages could not be generated", len(report.Diagnostics)))
	}
	return nil
}
