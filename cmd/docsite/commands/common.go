// Package commands implements the docsite CLI.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// LogLevelEnv overrides the configured log level unless --verbose is set.
const LogLevelEnv = "DOCSITE_LOG_LEVEL"

// Global carries shared state into subcommands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text|json). Overrides logging.format." enum:",text,json" default:""`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build      BuildCmd   `cmd:"" help:"Generate the static site"`
	Serve      ServeCmd   `cmd:"" help:"Serve the site directly from the content tree"`
	Daemon     DaemonCmd  `cmd:"" help:"Rebuild the static site on a schedule and on content changes"`
	Sitemap    SitemapCmd `cmd:"" help:"Print sitemap.xml"`
	Pages      PagesCmd   `cmd:"" help:"List every enumerated route"`
	Check      CheckCmd   `cmd:"" help:"Report navigation links that do not resolve"`
	Init       InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	MCP        MCPCmd     `cmd:"" name:"mcp" help:"Expose the documentation as an MCP server"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print build information"`
}

// AfterApply runs after flag parsing; set up logging once. Config-level
// logging settings are applied later by loadConfig.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level, _ := c.levelOverride()
	if level == "" {
		level = config.LogLevelInfo
	}
	format := config.NormalizeLogFormat(c.LogFormat)
	if format == "" {
		format = config.LogFormatText
	}
	setupLogging(level, format)
	return nil
}

// levelOverride returns the level forced by --verbose or LogLevelEnv.
func (c *CLI) levelOverride() (config.LogLevel, bool) {
	if c.Verbose {
		return config.LogLevelDebug, true
	}
	if lvl := config.NormalizeLogLevel(os.Getenv(LogLevelEnv)); lvl != "" {
		return lvl, true
	}
	return "", false
}

// applyLogging reconciles config logging with command-line overrides.
func (c *CLI) applyLogging(cfg config.LoggingConfig) {
	level, overridden := c.levelOverride()
	if !overridden {
		level = cfg.Level
	}
	format := config.NormalizeLogFormat(c.LogFormat)
	if format == "" {
		format = cfg.Format
	}
	setupLogging(level, format)
}

func setupLogging(level config.LogLevel, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var h slog.Handler
	if format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig reads the configuration file. A missing file at the default path
// falls back to built-in defaults so docsite works in a bare content checkout.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(c.Config); os.IsNotExist(statErr) && c.Config == config.DefaultPath {
		slog.Debug("No configuration file, using defaults", logfields.Path(c.Config))
		cfg = config.Defaults()
	} else {
		cfg, err = config.Load(c.Config)
		if err != nil {
			return nil, err
		}
	}
	c.applyLogging(cfg.Logging)
	return cfg, nil
}

// ContentFlags are shared by commands that read the content tree.
type ContentFlags struct {
	Content string `name:"content" help:"Content root (overrides content.root)" type:"path"`
}

func (f ContentFlags) apply(cfg *config.Config) {
	if f.Content != "" {
		cfg.Content.Root = f.Content
	}
}

func newSite(cfg *config.Config) (*site.Site, error) {
	slog.Debug("Content root", logfields.Root(cfg.Content.Root))
	return site.New(cfg)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
