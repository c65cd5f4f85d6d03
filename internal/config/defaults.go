package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultAddr        = ":8080"
	defaultCacheMaxAge = 5 * time.Minute
	defaultDebounce    = 500 * time.Millisecond
	defaultLanguage    = "en-US"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	s := &cfg.Site
	if s.Name == "" {
		s.Name = "Documentation"
	}
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = "http://localhost" + defaultAddr
	}
	s.CanonicalURL = strings.TrimRight(strings.TrimSpace(s.CanonicalURL), "/")
	if s.CanonicalURL == "" {
		s.CanonicalURL = s.BaseURL
	}
	if s.Title == "" {
		s.Title = s.Name
	}
	if s.Author == "" {
		s.Author = s.Name + " Team"
	}
	if s.Language == "" {
		s.Language = defaultLanguage
	}
	if s.OGImage == "" {
		s.OGImage = s.CanonicalURL + "/og-image.png"
	}
	if s.DocsOGImage == "" {
		s.DocsOGImage = s.OGImage
	}
	if s.Logo == "" {
		s.Logo = s.CanonicalURL + "/logo.png"
	}
	return nil
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Root == "" {
		cfg.Content.Root = "./content/docs"
	}
	exts := cfg.Content.Extensions[:0]
	for _, e := range cfg.Content.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		exts = []string{".md", ".mdx"}
	}
	cfg.Content.Extensions = exts
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./public"
	}
	if !cfg.Output.cleanSpecified {
		cfg.Output.Clean = true
	}
	return nil
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Workers < 0 {
		cfg.Build.Workers = 0
	}
	if cfg.Build.Debounce <= 0 {
		cfg.Build.Debounce = defaultDebounce
	}
	return nil
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.CacheMaxAge <= 0 {
		cfg.Server.CacheMaxAge = defaultCacheMaxAge
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	if lvl := NormalizeLogLevel(string(cfg.Logging.Level)); lvl != "" {
		cfg.Logging.Level = lvl
	} else {
		cfg.Logging.Level = LogLevelInfo
	}
	if f := NormalizeLogFormat(string(cfg.Logging.Format)); f != "" {
		cfg.Logging.Format = f
	} else {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	outputDefaults{},
	buildDefaults{},
	serverDefaults{},
	loggingDefaults{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}
