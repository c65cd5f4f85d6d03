package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Markdown documentation site: static build, serve, sitemap and MCP."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Get().String()},
		kong.Bind(&commands.Global{Stdout: os.Stdout, Stderr: os.Stderr}),
	)

	if err := parser.Run(cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
